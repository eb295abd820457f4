package sns

import "strings"

// MaxMessageLength is the SMS-safe message cap, counted in UTF-16 code units.
const MaxMessageLength = 140

// FormatMessage returns the longest prefix of description that fits in
// MaxMessageLength UTF-16 code units. No prefix, suffix or escaping is added.
func FormatMessage(description string) string {
	return truncateUTF16(description, MaxMessageLength)
}

// truncateUTF16 cuts s on a rune boundary so the result is always a byte
// prefix of s. A supplementary-plane rune that would straddle max is dropped
// whole. Invalid bytes count as one unit each.
func truncateUTF16(s string, max int) string {
	n := 0
	for i, r := range s {
		w := 1
		if r >= 0x10000 {
			w = 2
		}
		if n+w > max {
			return s[:i]
		}
		n += w
	}
	return s
}

type RecipientKind int

const (
	TopicRecipient RecipientKind = iota
	PhoneRecipient
)

func (k RecipientKind) String() string {
	switch k {
	case TopicRecipient:
		return "topic"
	case PhoneRecipient:
		return "phone"
	default:
		return "unknown"
	}
}

// Recipient is a classified destination. Value is a topic name for
// TopicRecipient and an E.164 number for PhoneRecipient.
type Recipient struct {
	Kind  RecipientKind
	Value string
}

// Classify treats to as a phone number iff it begins with '+'. Nothing else
// is validated; SNS reports malformed numbers and topic names.
func Classify(to string) Recipient {
	if strings.HasPrefix(to, "+") {
		return Recipient{Kind: PhoneRecipient, Value: to}
	}
	return Recipient{Kind: TopicRecipient, Value: to}
}
