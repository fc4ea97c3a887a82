package elsys

import (
	"encoding/hex"
	"encoding/json"
	"strings"
)

const (
	// GridSize is the edge length of the GRIDEYE thermal sensor.
	GridSize = 8
	// GridCells is the number of pixels reported by GRIDEYE.
	GridCells = GridSize * GridSize
)

// Acceleration holds raw signed axis readings, roughly 0.063G per unit.
type Acceleration struct {
	X, Y, Z int8
}

// Position is a GPS fix in degrees.
type Position struct {
	Lat float64
	Lon float64
}

// IRTemperature holds the two readings of the infrared thermometer in °C.
type IRTemperature struct {
	Internal float64
	External float64
}

// Sound holds sound level peak and average.
type Sound struct {
	Peak    uint8
	Average uint8
}

// ThermalGrid is the 8x8 GRIDEYE image. Cells are stored row-major in °C.
type ThermalGrid struct {
	Reference float64
	Cells     [GridCells]float64
}

// Cell returns the temperature at the given row and column.
func (g ThermalGrid) Cell(row, col int) float64 {
	return g.Cells[row*GridSize+col]
}

// DebugBlock is the opaque 4-byte DEBUG value.
type DebugBlock [4]byte

func (d DebugBlock) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText renders the block as lowercase hex.
func (d DebugBlock) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Record is a decoded Elsys payload. Each field is nil unless its tag was
// present in the payload; composite values are always complete.
type Record struct {
	Temp        *float64
	RH          *uint8
	Acc         *Acceleration
	Light       *uint16
	Motion      *uint8
	CO2         *uint16
	VDD         *uint16
	Analog1     *uint16
	GPS         *Position
	Pulse1      *uint16
	Pulse1Abs   *uint32
	ExtTemp1    *float64
	ExtDigital  *bool
	ExtDistance *uint16
	AccMotion   *uint8
	IRTemp      *IRTemperature
	Occupancy   *uint8
	WaterLeak   *uint8
	GridEye     *ThermalGrid
	Pressure    *float64
	Sound       *Sound
	Pulse2      *uint16
	Pulse2Abs   *uint32
	Analog2     *uint16
	ExtTemp2    *float64
	ExtDigital2 *bool
	ExtAnalogUV *int32
	Debug       *DebugBlock

	// order keeps each present tag once, by first appearance.
	order []Tag
}

func (r *Record) seen(t Tag) {
	for _, have := range r.order {
		if have == t {
			return
		}
	}
	r.order = append(r.order, t)
}

// Tags returns the tags present in the record in order of first appearance.
// Slots set after Decode follow in declaration order.
func (r Record) Tags() []Tag {
	return r.present()
}

func (r Record) present() []Tag {
	out := make([]Tag, 0, len(r.order))
	listed := make(map[Tag]bool, len(r.order))
	for _, t := range r.order {
		if _, ok := tagSpecs[t].value(r); ok {
			out = append(out, t)
			listed[t] = true
		}
	}
	for _, t := range declaredTags {
		if listed[t] {
			continue
		}
		if _, ok := tagSpecs[t].value(r); ok {
			out = append(out, t)
		}
	}
	return out
}

// Has reports whether the tag's slot is set.
func (r Record) Has(t Tag) bool {
	spec, ok := tagSpecs[t]
	if !ok {
		return false
	}
	_, present := spec.value(r)
	return present
}

// Empty reports whether no tag is present.
func (r Record) Empty() bool {
	return len(r.present()) == 0
}

// Fields returns the present values keyed by tag name. Composite values are
// nested maps; absent tags have no key.
func (r Record) Fields() map[string]any {
	tags := r.present()
	fields := make(map[string]any, len(tags))
	for _, t := range tags {
		spec := tagSpecs[t]
		v, _ := spec.value(r)
		fields[spec.name] = v
	}
	return fields
}

// Lines returns the text report, one entry per line.
func (r Record) Lines() []string {
	var out []string
	for _, t := range r.present() {
		out = append(out, tagSpecs[t].lines(r)...)
	}
	return out
}

// MarshalJSON emits only the present fields. Keys are sorted.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}

// JSON is shorthand for json.Marshal(r).
func (r Record) JSON() ([]byte, error) {
	return r.MarshalJSON()
}

// Text renders the line-oriented report. An empty record renders as "".
func (r Record) Text() string {
	lines := r.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
