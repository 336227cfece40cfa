package domain

import "errors"

// All three are fatal for a run: the caller must not write any output once
// one of them surfaces.
var (
	// ErrMalformedRecord reports a numeric or date field that cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrAmbiguousTimestamp reports an advisory time that cannot be reconciled
	// between its two encodings, or a local time with no known zone.
	ErrAmbiguousTimestamp = errors.New("ambiguous timestamp")

	// ErrDataQuality reports a failed aggregate check over a feature list.
	ErrDataQuality = errors.New("data quality violation")
)
