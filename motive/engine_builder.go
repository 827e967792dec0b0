package motive

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to
// the engine instance.
type EngineBuilderOption func(*engine)

// WithDebug enables debug-mode contract-violation panics across every
// Processor the Engine instantiates from then on. Without it, common
// classes of programmer error (double-init, freeing an interior slot)
// degrade to logged warnings or silent no-ops instead of aborting,
// matching a release build.
//
// Parameters:
//   - enabled: if true, contract violations panic instead of warning
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDebug(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.debug = enabled
	}
}

// WithFactory registers create as the Factory for typeTag at construction
// time, equivalent to calling Engine.RegisterFactory after NewEngine
// returns.
//
// Parameters:
//   - typeTag: the TypeTag the factory handles
//   - create: the Processor factory
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFactory(typeTag TypeTag, create Factory) EngineBuilderOption {
	return func(e *engine) {
		e.factories[typeTag] = create
	}
}
