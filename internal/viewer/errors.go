package viewer

import (
	"errors"
	"fmt"
)

// Stage is the step of the load flow that failed.
type Stage int

const (
	StageAcquire Stage = iota
	StageDecode
	StageValidate
	StageRender
)

func (s Stage) String() string {
	switch s {
	case StageAcquire:
		return "acquire"
	case StageDecode:
		return "decode"
	case StageValidate:
		return "validate"
	case StageRender:
		return "render"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Kind names the input adapter a load came through.
type Kind int

const (
	KindText Kind = iota
	KindFile
	KindURL
	KindDrop
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFile:
		return "file"
	case KindURL:
		return "url"
	case KindDrop:
		return "drop"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrNotGeoJSON is wrapped by validation failures.
var ErrNotGeoJSON = errors.New("not GeoJSON")

// LoadError is a failed load; Error() is the message shown to the user.
type LoadError struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func (e *LoadError) Error() string {
	switch e.Stage {
	case StageAcquire:
		if e.Kind == KindURL {
			return fmt.Sprintf("Error loading from URL: %v. The host may refuse cross-origin or non-browser requests.", e.Err)
		}
		return fmt.Sprintf("Error reading file: %v", e.Err)
	case StageDecode:
		return fmt.Sprintf("JSON parse error: %v", e.Err)
	case StageValidate:
		switch e.Kind {
		case KindFile, KindDrop:
			return "File is not GeoJSON."
		case KindURL:
			return "Response from URL is not GeoJSON."
		}
		return "This does not look like GeoJSON."
	case StageRender:
		return fmt.Sprintf("Failed to render: %v", e.Err)
	}
	return e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }
