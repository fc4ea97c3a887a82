package options

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// Format selects how a decoded payload is rendered.
type Format string

const (
	FormatJSON      Format = "json"
	FormatText      Format = "text"
	FormatTelemetry Format = "telemetry"
)

// Formats lists the accepted output formats.
var Formats = []Format{FormatJSON, FormatText, FormatTelemetry}

// ParseFormat validates an output format name. An empty string selects JSON.
func ParseFormat(input string) (Format, error) {
	name := Format(strings.ToLower(strings.TrimSpace(input)))
	if name == "" {
		return FormatJSON, nil
	}
	for _, f := range Formats {
		if f == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want json, text or telemetry)", input)
}

// ParseHex decodes a hex payload. Whitespace, '|' and '_' separators and a
// leading 0x are ignored.
func ParseHex(input string) ([]byte, error) {
	clean := StripSeparators(input)
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		clean = clean[2:]
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex payload must contain an even number of digits, got %d", len(clean))
	}
	decoded := make([]byte, len(clean)/2)
	if _, err := hex.Decode(decoded, []byte(clean)); err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded, nil
}

// StripSeparators removes whitespace and the '|' and '_' grouping characters.
func StripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '|' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
