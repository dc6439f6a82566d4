// Package status carries short user-facing messages from the core to
// whatever renders the status bar.
package status

import (
	"edshell/internal/log"
)

// Channel selects which part of the status bar a message goes to
type Channel int

const (
	Message Channel = iota
	Position
	Zoom
	Encoding
	numChannels
)

func (c Channel) String() string {
	switch c {
	case Message:
		return "message"
	case Position:
		return "position"
	case Zoom:
		return "zoom"
	case Encoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// Notifier receives status text. SetMessage must not block.
type Notifier interface {
	SetMessage(text string, ch Channel)
}

// Bar keeps the latest text posted to each channel
type Bar struct {
	texts [numChannels]string
}

// NewBar creates an empty status bar model
func NewBar() *Bar {
	return &Bar{}
}

func (b *Bar) SetMessage(text string, ch Channel) {
	if ch < 0 || ch >= numChannels {
		return
	}
	b.texts[ch] = text
}

// Text returns the current text of a channel
func (b *Bar) Text(ch Channel) string {
	if ch < 0 || ch >= numChannels {
		return ""
	}
	return b.texts[ch]
}

// Clear empties every channel
func (b *Bar) Clear() {
	b.texts = [numChannels]string{}
}

// Logged forwards to next and records every message at debug level
type Logged struct {
	next Notifier
}

// WithLogging wraps n so status traffic shows up in the debug log
func WithLogging(n Notifier) *Logged {
	return &Logged{next: n}
}

func (l *Logged) SetMessage(text string, ch Channel) {
	log.LogWithFields(log.F("channel", ch.String())).Debugf("status: %q", text)
	if l.next != nil {
		l.next.SetMessage(text, ch)
	}
}

// Discard drops every message
type Discard struct{}

func (Discard) SetMessage(string, Channel) {}
