package goelsys

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/d21d3q/goelsys/internal/driver"
	"github.com/d21d3q/goelsys/internal/driver/elsys" // registers the elsys decoder
	internalopts "github.com/d21d3q/goelsys/internal/options"
)

// ErrUnknownDecoder is matched by errors.Is when the decoder name is not
// registered. Use errors.As with *UnknownDecoderError for the list of names.
var ErrUnknownDecoder = driver.ErrUnknownDriver

// UnknownDecoderError carries the rejected name and the available decoders.
type UnknownDecoderError = driver.UnknownDriverError

// Result captures the outcome of DecodeHex.
type Result struct {
	Decoder     string
	RawHex      string
	ByteCount   int
	Measurement driver.Measurement
	Fields      map[string]any
}

// Decoders lists the registered decoder names.
func Decoders() []string {
	return driver.Names()
}

// String renders a human-readable representation of the result.
func (r Result) String() string {
	summary := map[string]any{
		"decoder":    r.Decoder,
		"byte_count": r.ByteCount,
		"raw_hex":    r.RawHex,
		"fields":     r.fields(),
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("decoder: %s bytes:%d raw:%s (marshal error: %v)", r.Decoder, r.ByteCount, r.RawHex, err)
	}
	return string(data)
}

// Elsys returns the typed record when the elsys decoder produced the result.
func (r Result) Elsys() (elsys.Record, bool) {
	rec, ok := r.Measurement.(elsys.Record)
	return rec, ok
}

// JSON returns the present fields as a JSON object. Absent fields are omitted
// and an empty measurement renders as {}.
func (r Result) JSON() (string, error) {
	data, err := json.Marshal(r.fields())
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	return string(data), nil
}

// Text returns the line-oriented report.
func (r Result) Text() string {
	if r.Measurement == nil {
		return ""
	}
	lines := r.Measurement.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Render formats the result. ts is only used by FormatTelemetry; a zero ts
// omits the timestamp wrapper.
func (r Result) Render(format Format, ts time.Time) (string, error) {
	switch format {
	case FormatJSON, "":
		return r.JSON()
	case FormatText:
		return r.Text(), nil
	case FormatTelemetry:
		var v any = r.fields()
		if !ts.IsZero() {
			v = r.Telemetry(ts)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("marshal telemetry: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func (r Result) fields() map[string]any {
	if r.Fields == nil {
		return map[string]any{}
	}
	return r.Fields
}

// DecodeHex decodes a hex payload with the default decoder.
func DecodeHex(ctx context.Context, raw string) (Result, error) {
	return DecodeHexWithOptions(ctx, raw, DecodeOptions{})
}

// DecodeHexWithOptions decodes a hex payload with custom options.
func DecodeHexWithOptions(ctx context.Context, raw string, opts DecodeOptions) (Result, error) {
	drv, err := driver.Lookup(opts.decoderName())
	if err != nil {
		return Result{}, err
	}
	data, err := internalopts.ParseHex(raw)
	if err != nil {
		return Result{}, err
	}
	return decode(ctx, drv, data, strings.ToUpper(internalopts.StripSeparators(raw)))
}

// Decode decodes a raw payload with custom options.
func Decode(ctx context.Context, payload []byte, opts DecodeOptions) (Result, error) {
	drv, err := driver.Lookup(opts.decoderName())
	if err != nil {
		return Result{}, err
	}
	return decode(ctx, drv, payload, fmt.Sprintf("%X", payload))
}

func decode(ctx context.Context, drv driver.Driver, data []byte, rawHex string) (Result, error) {
	m, err := drv.Decode(ctx, data)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", drv.Name(), err)
	}
	return Result{
		Decoder:     drv.Name(),
		RawHex:      rawHex,
		ByteCount:   len(data),
		Measurement: m,
		Fields:      m.Fields(),
	}, nil
}

// CheckDecoder returns an *UnknownDecoderError when name is not registered.
func CheckDecoder(name string) error {
	_, err := driver.Lookup(name)
	return err
}
