package graph

import "errors"

// Common model errors.
var (
	// ErrNilEntity is returned when a nil node, property or term is registered.
	ErrNilEntity = errors.New("nil entity")

	// ErrNodeNotFound is returned when a property is added to an unregistered node.
	ErrNodeNotFound = errors.New("node not found in model")

	// ErrPropertyNotFound is returned when terms are added to an unregistered property.
	ErrPropertyNotFound = errors.New("property not found in model")
)
