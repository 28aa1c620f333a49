package audio

// DecodeError represents a failure to turn an input byte stream into PCM.
// It is terminal for the file it describes: callers record it, they do not retry.
type DecodeError struct {
	Format  Format `json:"format"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Common decode error codes
const (
	ErrCodeEmptyInput  = "EMPTY_INPUT"
	ErrCodeUnsupported = "UNSUPPORTED_FORMAT"
	ErrCodeCorrupt     = "CORRUPT_STREAM"
	ErrCodeTranscode   = "TRANSCODE_FAILED"
)

// NewDecodeError creates a new decode error
func NewDecodeError(format Format, code, message string, cause error) *DecodeError {
	return &DecodeError{
		Format:  format,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
