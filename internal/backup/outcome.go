package backup

import "fmt"

// Outcome is the user-facing result of an import or export.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeFormatUnrecognized Outcome = "format-unrecognized"
	OutcomeFieldMissing       Outcome = "field-missing"
	OutcomeParseError         Outcome = "parse-error"
)

// Message returns the human-readable text for o.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return "data imported successfully"
	case OutcomeFormatUnrecognized:
		return "unrecognized file format"
	case OutcomeFieldMissing:
		return "required field missing"
	case OutcomeParseError:
		return "could not parse file"
	default:
		return string(o)
	}
}

// ImportError is a validation failure. Nothing has been written when it is
// returned.
type ImportError struct {
	Outcome Outcome
	Reason  string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Reason == "" {
		return e.Outcome.Message()
	}
	return fmt.Sprintf("%s: %s", e.Outcome.Message(), e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func (e *ImportError) Hint() string {
	switch e.Outcome {
	case OutcomeFormatUnrecognized:
		return "expected a cheese backup, an entry list, or a settings object"
	case OutcomeParseError:
		return "check that the file is valid JSON"
	default:
		return ""
	}
}

func parseError(err error) *ImportError {
	return &ImportError{Outcome: OutcomeParseError, Reason: err.Error(), Err: err}
}

func fieldMissing(format string, args ...any) *ImportError {
	return &ImportError{Outcome: OutcomeFieldMissing, Reason: fmt.Sprintf(format, args...)}
}

// invalidField reports a field that is present but holds an unusable value.
func invalidField(format string, args ...any) *ImportError {
	return &ImportError{Outcome: OutcomeParseError, Reason: fmt.Sprintf(format, args...)}
}
