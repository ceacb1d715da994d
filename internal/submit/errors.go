// ABOUTME: Errors returned by the routine submission workflow.
// ABOUTME: Validation failures carry the message shown to the user.
package submit

import "errors"

// User-facing messages.
const (
	MsgSignInToSave   = "Sign in to save routines"
	MsgNameRequired   = "Name is required"
	MsgNeedExercise   = "Add at least one exercise"
	MsgSessionExpired = "Session expired. Please sign in again."
	MsgNoUsername     = "Could not determine the username"
)

var (
	// ErrNotAuthenticated means no valid credentials are stored.
	ErrNotAuthenticated = errors.New(MsgSignInToSave)
	// ErrSessionExpired means the backend rejected the stored token.
	ErrSessionExpired = errors.New(MsgSessionExpired)
	// ErrNoUsername means the session has no username to own the routine.
	ErrNoUsername = errors.New(MsgNoUsername)
)

// ValidationError is a draft that cannot be submitted as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
