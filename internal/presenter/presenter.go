package presenter

// genericMessage replaces an empty message passed to Show so that a visible
// error always has text.
const genericMessage = "An unknown error occurred."

// Error is the single user-visible error slot. The zero value is hidden.
type Error struct {
	Visible bool
	Message string
}

// Show returns the Visible(message) state.
func (e Error) Show(message string) Error {
	if message == "" {
		message = genericMessage
	}
	return Error{Visible: true, Message: message}
}

// Acknowledge returns the Hidden state. Acknowledging a hidden error is a
// no-op.
func (e Error) Acknowledge() Error {
	return Error{}
}

// Hidden reports whether no error is shown.
func (e Error) Hidden() bool { return !e.Visible }
