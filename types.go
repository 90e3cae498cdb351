package minitar

import "github.com/meigma/minitar/internal/tartype"

// Re-export types from internal/tartype for public API.
type (
	// Entry describes one file stored in an archive.
	Entry = tartype.Entry

	// ProgressEvent represents a progress update during operations.
	ProgressEvent = tartype.ProgressEvent

	// ProgressStage identifies the current phase of an operation.
	ProgressStage = tartype.ProgressStage

	// ProgressFunc receives progress updates during operations.
	ProgressFunc = tartype.ProgressFunc
)

// Re-export typeflag constants.
const (
	TypeReg  = tartype.TypeReg
	TypeRegA = tartype.TypeRegA
)

// Re-export progress stage constants.
const (
	StagePreparing  = tartype.StagePreparing
	StageWriting    = tartype.StageWriting
	StageExtracting = tartype.StageExtracting
)
