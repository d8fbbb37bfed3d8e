// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wrappers holds small collection helpers shared across the module.
package wrappers

// Errs collects the first non-nil error it's given and ignores the rest,
// so a batch of independent fallible calls (e.g. registering several
// Prometheus collectors) can be checked once at the end.
type Errs struct{ Err error }

// Errored reports whether Add has ever been given a non-nil error.
func (e *Errs) Errored() bool { return e.Err != nil }

// Add records the first non-nil error among errs, if one hasn't already
// been recorded.
func (e *Errs) Add(errs ...error) {
	if e.Err != nil {
		return
	}
	for _, err := range errs {
		if err != nil {
			e.Err = err
			return
		}
	}
}
