package motive

import "errors"

// ErrUnknownType is returned by Engine.InitializeMotivator when an Init
// descriptor names a TypeTag with no registered factory. The Handle passed
// in stays Reset.
var ErrUnknownType = errors.New("motive: no processor factory registered for type tag")

// ErrAlreadyBound is a programmer-contract violation: calling
// InitializeMotivator on a Handle that is already bound to a live slot run.
var ErrAlreadyBound = errors.New("motive: handle is already bound to a slot run")
