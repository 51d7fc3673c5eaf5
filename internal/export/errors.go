package export

import (
	"errors"
	"fmt"
)

// Stage names a step of the export pipeline.
type Stage string

const (
	StageScoring        Stage = "scoring"
	StageValidation     Stage = "validation"
	StageEnrichment     Stage = "enrichment"
	StagePrioritization Stage = "prioritization"
	StageAssembly       Stage = "assembly"
	StageSerialization  Stage = "serialization"
	StageArchive        Stage = "archive"
)

var ErrInvalidExport = errors.New("invalid export request")

// StageError reports which pipeline stage aborted an export.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
