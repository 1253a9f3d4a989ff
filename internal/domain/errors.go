package domain

import "errors"

var (
	// ErrUnknownGlobalSeverity means the zone alert level is not one of the
	// known levels. The overall indicator cannot be derived.
	ErrUnknownGlobalSeverity = errors.New("unknown global severity label")

	// ErrIndeterminateSeverity means a category collected several distinct
	// restriction texts and none of them is recognised.
	ErrIndeterminateSeverity = errors.New("indeterminate category severity")

	// ErrMissingSeverity means a matched usage carries no restriction text.
	ErrMissingSeverity = errors.New("restriction level is not specified")
)
