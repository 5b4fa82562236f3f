package pixfx

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFilter is returned for a descriptor whose type is not one of
	// the built-in filter kinds.
	ErrUnknownFilter = errors.New("pixfx: unknown filter type")
	// ErrInvalidField is returned for a descriptor field of the wrong kind.
	ErrInvalidField = errors.New("pixfx: invalid descriptor field")
	// ErrContextLost is returned when the GPU context can no longer be used.
	// The owner must build a new FilterBackend and resubmit.
	ErrContextLost = errors.New("pixfx: gpu context lost")
	// ErrBackendBusy is returned when Run is entered while another run on the
	// same FilterBackend is in progress.
	ErrBackendBusy = errors.New("pixfx: backend already running a pipeline")
	// ErrDimensionMismatch is returned when the run inputs and outputs do not
	// share the same dimensions.
	ErrDimensionMismatch = errors.New("pixfx: image dimensions do not match")
	// ErrNoImage is returned when the selected backend has no input to read.
	ErrNoImage = errors.New("pixfx: no input image")
)

// ConfigurationError reports a malformed or unrecognized filter descriptor.
type ConfigurationError struct {
	Type  string // descriptor type, may be empty
	Field string // offending field, empty when the descriptor as a whole is bad
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("pixfx: configure %q: field %q: %v", e.Type, e.Field, e.Err)
	}
	return fmt.Sprintf("pixfx: configure %q: %v", e.Type, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// CapabilityMismatchError reports a filter that has no implementation for the
// backend selected for a run.
type CapabilityMismatchError struct {
	Index   int // position in the pipeline
	Filter  FilterType
	Backend BackendKind
}

func (e *CapabilityMismatchError) Error() string {
	return fmt.Sprintf("pixfx: filter %d (%s) has no %s implementation", e.Index, e.Filter, e.Backend)
}

// ResourceAllocationError reports a texture, canvas or program that could not
// be created.
type ResourceAllocationError struct {
	Resource string // "texture", "program", ...
	Role     Role   // pool role, empty for programs
	Err      error
}

func (e *ResourceAllocationError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("pixfx: allocate %s %q: %v", e.Resource, e.Role, e.Err)
	}
	return fmt.Sprintf("pixfx: allocate %s: %v", e.Resource, e.Err)
}

func (e *ResourceAllocationError) Unwrap() error { return e.Err }
