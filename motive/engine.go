package motive

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Factory creates a new, empty Processor for a TypeTag. Registered once per
// tag via Engine.RegisterFactory; the Engine calls it lazily, the first
// time a Handle of that type is initialized.
type Factory func(debug bool) Processor

// engine implements Engine.
type engine struct {
	debug bool
	log   *logrus.Entry

	factories map[TypeTag]Factory

	processors map[TypeTag]Processor
	// ordered caches the priority-ascending traversal order; recomputed
	// lazily the next time AdvanceFrame runs after a new processor is
	// added.
	ordered []Processor
	dirty   bool
}

// Engine owns at most one Processor per registered TypeTag and drives
// per-frame advancement across all of them in ascending-Priority order, so
// that within one frame every lower-priority Processor's side effects are
// visible to every higher-priority Processor that reads them.
type Engine interface {
	// RegisterFactory registers create as the Factory for typeTag.
	// Idempotent: registering the same tag again replaces the factory but
	// does not affect a Processor already instantiated for that tag.
	RegisterFactory(typeTag TypeTag, create Factory)

	// InitializeMotivator looks up the TypeTag embedded in init, lazily
	// instantiates that tag's Processor via its Factory if needed, and
	// delegates to the Processor's InitializeMotivator. Returns
	// ErrUnknownType if no factory is registered for init.Type — the
	// handle stays Reset.
	InitializeMotivator(init Init, handle *Handle) error

	// Processor returns the live Processor for typeTag, or nil if none has
	// been instantiated yet (no Handle of that type has been initialized).
	Processor(typeTag TypeTag) Processor

	// AdvanceFrame advances every registered Processor by dt, in ascending
	// Priority order.
	AdvanceFrame(dt float32)

	// VerifyInternalState runs every Processor's VerifyInternalState hook
	// (for Processors that embed *Base, which all concrete processors in
	// this module do) and returns the first error encountered.
	VerifyInternalState() error
}

// NewEngine creates an Engine. Options configure debug mode and the
// built-in Processor factories via a functional-option style (see
// EngineBuilderOption).
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		factories:  make(map[TypeTag]Factory),
		processors: make(map[TypeTag]Processor),
		log:        logrus.WithField("component", "motive.engine"),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) RegisterFactory(typeTag TypeTag, create Factory) {
	e.factories[typeTag] = create
}

func (e *engine) InitializeMotivator(init Init, handle *Handle) error {
	p, ok := e.processors[init.Type]
	if !ok {
		create, known := e.factories[init.Type]
		if !known {
			e.log.WithField("type", string(init.Type)).Error("InitializeMotivator: no processor factory registered")
			return fmt.Errorf("%w: %s", ErrUnknownType, init.Type)
		}
		p = create(e.debug)
		e.processors[init.Type] = p
		e.dirty = true
	}

	initializer, ok := p.(interface {
		InitializeMotivator(init Init, handle *Handle)
	})
	if !ok {
		return fmt.Errorf("motive: processor for type %s does not implement InitializeMotivator", init.Type)
	}
	initializer.InitializeMotivator(init, handle)
	return nil
}

func (e *engine) Processor(typeTag TypeTag) Processor {
	return e.processors[typeTag]
}

// AdvanceFrame recomputes the priority-ascending traversal order only when
// a Processor was added since the last computation, then advances every
// Processor in that order.
func (e *engine) AdvanceFrame(dt float32) {
	if e.dirty || e.ordered == nil {
		e.ordered = make([]Processor, 0, len(e.processors))
		for _, p := range e.processors {
			e.ordered = append(e.ordered, p)
		}
		sort.SliceStable(e.ordered, func(i, j int) bool {
			return e.ordered[i].Priority() < e.ordered[j].Priority()
		})
		e.dirty = false
	}

	for _, p := range e.ordered {
		p.AdvanceFrame(dt)
	}
}

func (e *engine) VerifyInternalState() error {
	for tag, p := range e.processors {
		verifier, ok := p.(interface{ VerifyInternalState() error })
		if !ok {
			continue
		}
		if err := verifier.VerifyInternalState(); err != nil {
			return fmt.Errorf("motive: processor %s: %w", tag, err)
		}
	}
	return nil
}
