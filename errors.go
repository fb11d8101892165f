// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package risk implements a numerical differential-geometry engine for
// scoring the local fragility of a scalar pricing function over a bounded,
// discretised state space of risk factors.
package risk

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
)

// Kind tags the class of failure a call reports, per the error taxonomy.
type Kind int

// Error kinds. Success is not represented: a nil error means success.
const (
	NullPointer Kind = iota + 1
	InvalidArgument
	OutOfMemory
	DimensionMismatch
	SingularMatrix
	NumericalInstability
	PricingEngineFailed
	ConstraintViolation
	NotInitialized
)

// String gives a short, lowercase name for the kind, used in messages.
func (k Kind) String() string {
	switch k {
	case NullPointer:
		return "null-pointer"
	case InvalidArgument:
		return "invalid-argument"
	case OutOfMemory:
		return "out-of-memory"
	case DimensionMismatch:
		return "dimension-mismatch"
	case SingularMatrix:
		return "singular-matrix"
	case NumericalInstability:
		return "numerical-instability"
	case PricingEngineFailed:
		return "pricing-engine-failed"
	case ConstraintViolation:
		return "constraint-violation"
	case NotInitialized:
		return "not-initialized"
	}
	return "unknown"
}

// Error is the kinded error returned by every call in this module.
type Error struct {
	Kind Kind
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Errf builds a kinded error using gosl/chk's message formatting, the way
// gofem's model code builds its errors with chk.Err.
func Errf(kind Kind, msg string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: chk.Err(msg, args...).Error()}
}

// Is lets errors.Is match on Kind via a sentinel *Error with only Kind set.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind from err, or 0 if err is not one of ours.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return 0
}
