package pipeline

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/storm-track-geojson/internal/domain"
)

// Pipeline stages reported in StageError.
const (
	StageFetch     = "fetch"
	StageDecode    = "decode"
	StageNormalize = "normalize"
	StageQuality   = "quality"
	StageWrite     = "write"
)

// ErrRunInProgress is returned by RunOnce when another run holds the pipeline.
var ErrRunInProgress = errors.New("run already in progress")

// StageError records which stage of a run failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// errorKind labels record errors for the record_errors_total metric.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedRecord):
		return "malformed"
	case errors.Is(err, domain.ErrAmbiguousTimestamp):
		return "timestamp"
	default:
		return "other"
	}
}
