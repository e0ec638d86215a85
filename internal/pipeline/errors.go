package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure. Diarization has no kind here: its
// errors are absorbed, never surfaced.
type Kind int

const (
	KindUnknown Kind = iota
	KindModelUnavailable
	KindTranscriptionFailed
	KindSummarizationFailed
	// KindJSONInvalid is surfaced only when even the fallback extraction
	// cannot be built (no recording start date). The decode→repair chain
	// itself never fails the pipeline.
	KindJSONInvalid
	KindVaultWriteFailed
	KindCancelled
	// KindBusy: a second Run was attempted while one was in flight.
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindModelUnavailable:
		return "model_unavailable"
	case KindTranscriptionFailed:
		return "transcription_failed"
	case KindSummarizationFailed:
		return "summarization_failed"
	case KindJSONInvalid:
		return "json_invalid"
	case KindVaultWriteFailed:
		return "vault_write_failed"
	case KindCancelled:
		return "cancelled"
	case KindBusy:
		return "busy"
	}
	return "unknown"
}

// Error is a classified pipeline failure. Detail carries diagnostic context
// for logs; it must never end up inside a vault file.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from err, or KindUnknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
