package sealable

import errors "gopkg.in/src-d/go-errors.v1"

// ErrSealed is returned by every mutating operation of a sealed Map.
var ErrSealed = errors.NewKind("cannot write to this map when it is sealed")
