package qrformat

import "errors"

// ErrUnsupportedKind is returned for a kind without an encoder
var ErrUnsupportedKind = errors.New("Unsupported QR type.")

// ValidationError reports a missing or malformed form value. Message is
// shown to the user as is.
type ValidationError struct {
	Kind    Kind
	Field   string
	Message string
	err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// RenderMessage is the text shown when composing or decoding an image fails
const RenderMessage = "Failed to render preview."

// RenderError reports a failure while composing the QR image
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return RenderMessage
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Detail returns the underlying cause for logs
func (e *RenderError) Detail() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserMessage picks the text to show for err: validation messages verbatim,
// the generic render message for everything else.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return RenderMessage
}
