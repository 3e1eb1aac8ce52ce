package errors

import "errors"

// Error codes shared across the client. Handlers use them to decide which
// user-facing message to show; the raw cause stays in the log channel.
const (
	CodeInvalidInput = "invalid_input"
	CodeNetwork      = "network_error"
	CodeBackend      = "backend_error"
	CodeDecode       = "decode_error"
	CodeModel        = "model_error"
	CodeStorage      = "storage_error"
	CodeAudio        = "audio_error"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// UserMessage extracts the message meant for display, falling back to a
// generic string for errors that did not come through Wrap.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return "Request failed"
	}
	return ""
}
