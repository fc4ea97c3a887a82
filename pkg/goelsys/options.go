package goelsys

import (
	"github.com/d21d3q/goelsys/internal/driver/elsys"
	internalopts "github.com/d21d3q/goelsys/internal/options"
)

// Format selects the rendering used by Result.Render.
type Format = internalopts.Format

const (
	FormatJSON      = internalopts.FormatJSON
	FormatText      = internalopts.FormatText
	FormatTelemetry = internalopts.FormatTelemetry
)

// DefaultDecoder is used when DecodeOptions.Decoder is empty.
const DefaultDecoder = elsys.Name

// DecodeOptions configures decoding.
type DecodeOptions struct {
	// Decoder names the registered decoder, see Decoders.
	Decoder string
}

func (opts DecodeOptions) decoderName() string {
	if opts.Decoder == "" {
		return DefaultDecoder
	}
	return opts.Decoder
}

// ParseFormat validates an output format name; "" selects JSON.
func ParseFormat(s string) (Format, error) {
	return internalopts.ParseFormat(s)
}
