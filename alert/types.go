package alert

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Stream references the stream an alert condition was evaluated against.
type Stream struct {
	ID    string
	Title string
}

// CheckResult is the outcome of an alert condition check that fired.
type CheckResult struct {
	// ResultDescription is the human-readable summary of what triggered.
	ResultDescription string

	// TriggeredAt is the time the condition fired.
	TriggeredAt time.Time

	Level Level
}

// Event pairs a check result with the stream that produced it.
type Event struct {
	Stream Stream
	Result CheckResult
}

type Handler interface {
	// Handle is responsible for taking action on the event.
	Handle(event Event)
}

type Level int

const (
	OK Level = iota
	Info
	Warning
	Critical
	maxLevel
)

const levelStrings = "OKINFOWARNINGCRITICAL"

var levelBytes = []byte(levelStrings)

var levelOffsets = []int{0, 2, 6, 13, 21}

func (l Level) String() string {
	if l >= 0 && l < maxLevel {
		return levelStrings[levelOffsets[l]:levelOffsets[l+1]]
	}
	return "unknown"
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	idx := bytes.Index(levelBytes, text)
	if idx >= 0 {
		for i := 0; i < int(maxLevel); i++ {
			if idx == levelOffsets[i] && len(text) == levelOffsets[i+1]-levelOffsets[i] {
				*l = Level(i)
				return nil
			}
		}
	}

	return fmt.Errorf("unknown alert level '%s'", text)
}

func ParseLevel(s string) (l Level, err error) {
	err = l.UnmarshalText([]byte(strings.ToUpper(s)))
	return
}
