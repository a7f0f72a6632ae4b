package querycache

import "fmt"

// DefaultMaxResults is the default per-database ceiling.
const DefaultMaxResults = 128

// Properties are the administrative settings of the cache.
type Properties struct {
	Mode       Mode `json:"mode" toml:"mode"`
	MaxResults int  `json:"maxResults" toml:"max_results"`
}

// DefaultProperties returns the settings of a freshly created cache.
func DefaultProperties() Properties {
	return Properties{Mode: ModeOff, MaxResults: DefaultMaxResults}
}

// Validate reports invalid settings.
func (p Properties) Validate() error {
	if !p.Mode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, p.Mode)
	}
	if p.MaxResults < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxResults, p.MaxResults)
	}
	return nil
}

// String returns a short description of the properties.
func (p Properties) String() string {
	return fmt.Sprintf("mode=%s maxResults=%d", p.Mode, p.MaxResults)
}
