package elsys

import (
	"context"

	"github.com/d21d3q/goelsys/internal/driver"
)

// Name is the decoder name used on the command line.
const Name = "elsys"

func init() {
	driver.Register(Driver{})
}

// Driver adapts Decode to the driver registry.
type Driver struct{}

var _ driver.Driver = Driver{}

// Name returns the canonical driver name.
func (Driver) Name() string { return Name }

// Decode implements driver.Driver.
func (Driver) Decode(ctx context.Context, payload []byte) (driver.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
