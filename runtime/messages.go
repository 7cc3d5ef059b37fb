package runtime

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Message is an input to one evaluation pass.
// Messages come from terminal input, timers, or background goroutines.
type Message interface {
	isMessage()
}

// KeyMsg represents a keyboard input event.
type KeyMsg struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

func (KeyMsg) isMessage() {}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// TickMsg is sent on each loop tick.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}

// QueueFlushMsg wakes the loop to flush the state queue and run after-pass
// callbacks.
type QueueFlushMsg struct{}

func (QueueFlushMsg) isMessage() {}

// InvalidateMsg requests a render without any other work.
type InvalidateMsg struct{}

func (InvalidateMsg) isMessage() {}

// CustomMsg carries application data through the loop.
type CustomMsg struct {
	Value any
}

func (CustomMsg) isMessage() {}

// fromEvent translates a terminal event. Unknown events yield nil.
func fromEvent(ev tcell.Event) Message {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return KeyMsg{Key: e.Key(), Rune: e.Rune(), Mod: e.Modifiers()}
	case *tcell.EventResize:
		w, h := e.Size()
		return ResizeMsg{Width: w, Height: h}
	default:
		return nil
	}
}
