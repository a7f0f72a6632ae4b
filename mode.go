package querycache

import (
	"strings"
)

// Mode controls whether queries use the result cache.
type Mode uint32

const (
	// ModeOff disables lookups and stores. Cached entries stay until they
	// are invalidated.
	ModeOff Mode = iota
	// ModeOn caches every query unless the query opts out.
	ModeOn
	// ModeDemand caches only queries that opt in.
	ModeDemand
)

// String returns the mode name used in properties.
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeOn:
		return "on"
	case ModeDemand:
		return "demand"
	default:
		return "unknown"
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m <= ModeDemand
}

// ParseMode parses a mode name ("off", "on" or "demand", case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return ModeOff, nil
	case "on":
		return ModeOn, nil
	case "demand":
		return ModeDemand, nil
	default:
		return ModeOff, &ErrModeString{Value: s}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, ErrInvalidMode
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// QueryHint is a query's own cache preference.
type QueryHint uint8

const (
	// HintDefault means the query did not state a preference.
	HintDefault QueryHint = iota
	// HintCache means the query asked to use the cache.
	HintCache
	// HintNoCache means the query opted out of the cache.
	HintNoCache
)

func (m Mode) allows(hint QueryHint) bool {
	switch m {
	case ModeOn:
		return hint != HintNoCache
	case ModeDemand:
		return hint == HintCache
	default:
		return false
	}
}
