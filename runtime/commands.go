package runtime

import "context"

// Command is an intent handed to the loop from update code or components.
type Command interface {
	Command()
}

// PostFunc sends a message into the loop.
// It returns false when the message buffer is full.
type PostFunc func(Message) bool

// Quit stops the loop after the current pass.
type Quit struct{}

func (Quit) Command() {}

// Refresh forces a render at the end of the current pass.
type Refresh struct{}

func (Refresh) Command() {}

// SendMsg posts a message into the loop.
type SendMsg struct {
	Message Message
}

func (SendMsg) Command() {}

// Send wraps a message in a SendMsg command.
func Send(msg Message) Command {
	return SendMsg{Message: msg}
}

// Effect runs work in a background goroutine.
// Use the provided context for cancellation and PostFunc to emit messages.
type Effect struct {
	Run func(ctx context.Context, post PostFunc)
}

func (Effect) Command() {}

// CommandHandler handles commands the loop does not know.
// Return true if the command requires a render.
type CommandHandler func(cmd Command) bool
