package elsys

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Tag identifies one measurement kind inside an Elsys payload. The byte values
// follow https://www.elsys.se/en/elsys-payload/.
type Tag byte

const (
	TagTemp        Tag = 0x01 // 2 bytes, signed, 0.1°C
	TagRH          Tag = 0x02 // 1 byte, %
	TagAcc         Tag = 0x03 // 3 bytes, X,Y,Z signed, 63 = 1G
	TagLight       Tag = 0x04 // 2 bytes, Lux
	TagMotion      Tag = 0x05 // 1 byte, PIR count
	TagCO2         Tag = 0x06 // 2 bytes, ppm
	TagVDD         Tag = 0x07 // 2 bytes, mV
	TagAnalog1     Tag = 0x08 // 2 bytes, mV
	TagGPS         Tag = 0x09 // 3 bytes lat, 3 bytes lon
	TagPulse1      Tag = 0x0A // 2 bytes, relative count
	TagPulse1Abs   Tag = 0x0B // 4 bytes, absolute count
	TagExtTemp1    Tag = 0x0C // 2 bytes, signed, 0.1°C
	TagExtDigital  Tag = 0x0D // 1 byte, 1 or 0
	TagExtDistance Tag = 0x0E // 2 bytes, mm
	TagAccMotion   Tag = 0x0F // 1 byte, vibration/motion count
	TagIRTemp      Tag = 0x10 // 2 bytes internal, 2 bytes external, 0.1°C
	TagOccupancy   Tag = 0x11 // 1 byte
	TagWaterLeak   Tag = 0x12 // 1 byte
	TagGridEye     Tag = 0x13 // 1 byte reference + 64 bytes offsets
	TagPressure    Tag = 0x14 // 4 bytes, 0.001 hPa
	TagSound       Tag = 0x15 // 1 byte peak, 1 byte average
	TagPulse2      Tag = 0x16 // 2 bytes, relative count
	TagPulse2Abs   Tag = 0x17 // 4 bytes, absolute count
	TagAnalog2     Tag = 0x18 // 2 bytes, mV
	TagExtTemp2    Tag = 0x19 // 2 bytes, signed, 0.1°C
	TagExtDigital2 Tag = 0x1A // 1 byte, 1 or 0
	TagExtAnalogUV Tag = 0x1B // 4 bytes, signed µV
	TagDebug       Tag = 0x3D // 4 bytes, opaque
)

// tagSpec binds a tag to everything that knows about its shape: the wire width,
// how to store it in a Record, and how to render it back out. Every tag in
// declaredTags must have all four members.
type tagSpec struct {
	name   string
	width  int
	decode func(r *Record, b []byte)
	value  func(r Record) (any, bool)
	lines  func(r Record) []string
}

// declaredTags lists the known tags in declaration order.
var declaredTags = []Tag{
	TagTemp, TagRH, TagAcc, TagLight, TagMotion, TagCO2, TagVDD, TagAnalog1,
	TagGPS, TagPulse1, TagPulse1Abs, TagExtTemp1, TagExtDigital, TagExtDistance,
	TagAccMotion, TagIRTemp, TagOccupancy, TagWaterLeak, TagGridEye, TagPressure,
	TagSound, TagPulse2, TagPulse2Abs, TagAnalog2, TagExtTemp2, TagExtDigital2,
	TagExtAnalogUV, TagDebug,
}

var tagSpecs = map[Tag]tagSpec{
	TagTemp: {
		name:   "temp",
		width:  2,
		decode: func(r *Record, b []byte) { r.Temp = ptr(decodeTenths(b)) },
		value:  func(r Record) (any, bool) { return opt(r.Temp) },
		lines:  func(r Record) []string { return line("Temperature: %.1f°C", *r.Temp) },
	},
	TagRH: {
		name:   "rh",
		width:  1,
		decode: func(r *Record, b []byte) { r.RH = ptr(b[0]) },
		value:  func(r Record) (any, bool) { return opt(r.RH) },
		lines:  func(r Record) []string { return line("Humidity: %d%%", *r.RH) },
	},
	TagAcc: {
		name:  "acc",
		width: 3,
		decode: func(r *Record, b []byte) {
			r.Acc = &Acceleration{X: int8(b[0]), Y: int8(b[1]), Z: int8(b[2])}
		},
		value: func(r Record) (any, bool) {
			if r.Acc == nil {
				return nil, false
			}
			return map[string]any{"x": r.Acc.X, "y": r.Acc.Y, "z": r.Acc.Z}, true
		},
		lines: func(r Record) []string {
			return line("Acceleration: %d,%d,%d", r.Acc.X, r.Acc.Y, r.Acc.Z)
		},
	},
	TagLight: {
		name:   "light",
		width:  2,
		decode: func(r *Record, b []byte) { r.Light = ptr(binary.BigEndian.Uint16(b)) },
		value:  func(r Record) (any, bool) { return opt(r.Light) },
		lines:  func(r Record) []string { return line("Light: %d Lux", *r.Light) },
	},
	TagMotion: {
		name:   "motion",
		width:  1,
		decode: func(r *Record, b []byte) { r.Motion = ptr(b[0]) },
		value:  func(r Record) (any, bool) { return opt(r.Motion) },
		lines:  func(r Record) []string { return line("Motion: %d", *r.Motion) },
	},
	TagCO2: {
		name:   "co2",
		width:  2,
		decode: func(r *Record, b []byte) { r.CO2 = ptr(binary.BigEndian.Uint16(b)) },
		value:  func(r Record) (any, bool) { return opt(r.CO2) },
		lines:  func(r Record) []string { return line("CO₂: %d ppm", *r.CO2) },
	},
	TagVDD: {
		name:   "vdd",
		width:  2,
		decode: func(r *Record, b []byte) { r.VDD = ptr(binary.BigEndian.Uint16(b)) },
		value:  func(r Record) (any, bool) { return opt(r.VDD) },
		lines:  func(r Record) []string { return line("Battery Level: %d mV", *r.VDD) },
	},
	TagAnalog1: {
		name:   "analog1",
		width:  2,
		decode: func(r *Record, b []byte) { r.Analog1 = ptr(binary.BigEndian.Uint16(b)) },
		value:  func(r Record) (any, bool) { return opt(r.Analog1) },
		lines:  func(r Record) []string { return line("Analog 1: %d mV", *r.Analog1) },
	},
	TagGPS: {
		name:  "gps",
		width: 6,
		decode: func(r *Record, b []byte) {
			r.GPS = &Position{
				Lat: float64(int24(b[0:3])) / 10000,
				Lon: float64(int24(b[3:6])) / 10000,
			}
		},
		value: func(r Record) (any, bool) {
			if r.GPS == nil {
				return nil, false
			}
			return map[string]any{"lat": r.GPS.Lat, "lon": r.GPS.Lon}, true
		},
		lines: func(r Record) []string {
			return line("GPS: lat:%.4f lon:%.4f", r.GPS.Lat, r.GPS.Lon)
		},
	},
	TagPulse1: {
		name:   "pulse1",
		width:  2,
		decode: func(r *Record, b []byte) { r.Pulse1 = ptr(binary.BigEndian.Uint16(b)) },
		value:  func(r Record) (any, bool) { return opt(r.Pulse1) },
		lines:  func(r Record) []string { return line("Relative pulse count 1: %d", *r.Pulse1) },
	},
	TagPulse1Abs: {
		name:   "pulse1_abs",
		width:  4,
		decode: func(r *Record, b []byte) { r.Pulse1Abs = ptr(binary.BigEndian.Uint32(b)) },
		value:  func(r Record) (any, bool) { return opt(r.Pulse1Abs) },
		lines:  func(r Record) []string { return line("Absolute pulse count 1: %d", *r.Pulse1Abs) },
	},
	TagExtTemp1: {
		name:   "ext_temp1",
		width:  2,
		decode: func(r *Record, b []byte) { r.ExtTemp1 = ptr(decodeTenths(b)) },
		value:  func(r Record) (any, bool) { return opt(r.ExtTemp1) },
		lines:  func(r Record) []string { return line("External temperature 1: %.1f°C", *r.ExtTemp1) },
	},
	TagExtDigital: {
		name:   "ext_digital",
		width:  1,
		decode: func(r *Record, b []byte) { r.ExtDigital = ptr(b[0] != 0) },
		value:  func(r Record) (any, bool) { return opt(r.ExtDigital) },
		lines:  func(r Record) []string { return line("Digital signal 1: %t", *r.ExtDigital) },
	},
	TagExtDistance: {
		name:   "ext_distance",
		width:  2,
		decode: func(r *Record, b []byte) { r.ExtDistance = ptr(binary.BigEndian.Uint16(b)) },
		value:  func(r Record) (any, bool) { return opt(r.ExtDistance) },
		lines:  func(r Record) []string { return line("Distance: %d mm", *r.ExtDistance) },
	},
	TagAccMotion: {
		name:   "acc_motion",
		width:  1,
		decode: func(r *Record, b []byte) { r.AccMotion = ptr(b[0]) },
		value:  func(r Record) (any, bool) { return opt(r.AccMotion) },
		lines:  func(r Record) []string { return line("Vibration/Motion: %d", *r.AccMotion) },
	},
	TagIRTemp: {
		name:  "ir_temp",
		width: 4,
		decode: func(r *Record, b []byte) {
			r.IRTemp = &IRTemperature{Internal: decodeTenths(b[0:2]), External: decodeTenths(b[2:4])}
		},
		value: func(r Record) (any, bool) {
			if r.IRTemp == nil {
				return nil, false
			}
			return map[string]any{"internal": r.IRTemp.Internal, "external": r.IRTemp.External}, true
		},
		lines: func(r Record) []string {
			return []string{
				fmt.Sprintf("IR internal temperature: %.1f°C", r.IRTemp.Internal),
				fmt.Sprintf("IR external temperature: %.1f°C", r.IRTemp.External),
			}
		},
	},
	TagOccupancy: {
		name:   "occupancy",
		width:  1,
		decode: func(r *Record, b []byte) { r.Occupancy = ptr(b[0]) },
		value:  func(r Record) (any, bool) { return opt(r.Occupancy) },
		lines:  func(r Record) []string { return line("Occupancy: %d", *r.Occupancy) },
	},
	TagWaterLeak: {
		name:   "waterleak",
		width:  1,
		decode: func(r *Record, b []byte) { r.WaterLeak = ptr(b[0]) },
		value:  func(r Record) (any, bool) { return opt(r.WaterLeak) },
		lines:  func(r Record) []string { return line("Waterleak: %d", *r.WaterLeak) },
	},
	TagGridEye: {
		name:   "grideye",
		width:  1 + GridCells,
		decode: func(r *Record, b []byte) { r.GridEye = decodeGrid(b) },
		value: func(r Record) (any, bool) {
			if r.GridEye == nil {
				return nil, false
			}
			cells := make([]float64, GridCells)
			copy(cells, r.GridEye.Cells[:])
			return map[string]any{"reference": r.GridEye.Reference, "cells": cells}, true
		},
		lines: func(r Record) []string { return gridLines(r.GridEye) },
	},
	TagPressure: {
		name:  "pressure",
		width: 4,
		decode: func(r *Record, b []byte) {
			r.Pressure = ptr(float64(int32(binary.BigEndian.Uint32(b))) / 1000)
		},
		value: func(r Record) (any, bool) { return opt(r.Pressure) },
		lines: func(r Record) []string { return line("Pressure: %.3f hPa", *r.Pressure) },
	},
	TagSound: {
		name:   "sound",
		width:  2,
		decode: func(r *Record, b []byte) { r.Sound = &Sound{Peak: b[0], Average: b[1]} },
		value: func(r Record) (any, bool) {
			if r.Sound == nil {
				return nil, false
			}
			return map[string]any{"peak": r.Sound.Peak, "avg": r.Sound.Average}, true
		},
		lines: func(r Record) []string {
			return line("Sound: Peak:%d Average:%d", r.Sound.Peak, r.Sound.Average)
		},
	},
	TagPulse2: {
		name:   "pulse2",
		width:  2,
		decode: func(r *Record, b []byte) { r.Pulse2 = ptr(binary.BigEndian.Uint16(b)) },
		value:  func(r Record) (any, bool) { return opt(r.Pulse2) },
		lines:  func(r Record) []string { return line("Relative pulse count 2: %d", *r.Pulse2) },
	},
	TagPulse2Abs: {
		name:   "pulse2_abs",
		width:  4,
		decode: func(r *Record, b []byte) { r.Pulse2Abs = ptr(binary.BigEndian.Uint32(b)) },
		value:  func(r Record) (any, bool) { return opt(r.Pulse2Abs) },
		lines:  func(r Record) []string { return line("Absolute pulse count 2: %d", *r.Pulse2Abs) },
	},
	TagAnalog2: {
		name:   "analog2",
		width:  2,
		decode: func(r *Record, b []byte) { r.Analog2 = ptr(binary.BigEndian.Uint16(b)) },
		value:  func(r Record) (any, bool) { return opt(r.Analog2) },
		lines:  func(r Record) []string { return line("Analog 2: %d mV", *r.Analog2) },
	},
	TagExtTemp2: {
		name:   "ext_temp2",
		width:  2,
		decode: func(r *Record, b []byte) { r.ExtTemp2 = ptr(decodeTenths(b)) },
		value:  func(r Record) (any, bool) { return opt(r.ExtTemp2) },
		lines:  func(r Record) []string { return line("External temperature 2: %.1f°C", *r.ExtTemp2) },
	},
	TagExtDigital2: {
		name:   "ext_digital2",
		width:  1,
		decode: func(r *Record, b []byte) { r.ExtDigital2 = ptr(b[0] != 0) },
		value:  func(r Record) (any, bool) { return opt(r.ExtDigital2) },
		lines:  func(r Record) []string { return line("Digital signal 2: %t", *r.ExtDigital2) },
	},
	TagExtAnalogUV: {
		name:   "ext_analog_uv",
		width:  4,
		decode: func(r *Record, b []byte) { r.ExtAnalogUV = ptr(int32(binary.BigEndian.Uint32(b))) },
		value:  func(r Record) (any, bool) { return opt(r.ExtAnalogUV) },
		lines:  func(r Record) []string { return line("Analog UV: %d uV", *r.ExtAnalogUV) },
	},
	TagDebug: {
		name:  "debug",
		width: 4,
		decode: func(r *Record, b []byte) {
			var d DebugBlock
			copy(d[:], b)
			r.Debug = &d
		},
		value: func(r Record) (any, bool) {
			if r.Debug == nil {
				return nil, false
			}
			return r.Debug.String(), true
		},
		lines: func(r Record) []string { return line("Debug: %s", r.Debug.String()) },
	},
}

// String returns the field name used in JSON output, or the hex value for
// tags this package does not know.
func (t Tag) String() string {
	if spec, ok := tagSpecs[t]; ok {
		return spec.name
	}
	return fmt.Sprintf("0x%02X", byte(t))
}

// Width reports how many bytes follow the tag byte. Unknown tags report
// (0, false).
func (t Tag) Width() (int, bool) {
	spec, ok := tagSpecs[t]
	if !ok {
		return 0, false
	}
	return spec.width, true
}

// Known reports whether the tag is part of the supported tag set.
func (t Tag) Known() bool {
	_, ok := tagSpecs[t]
	return ok
}

// Tags returns all supported tags in declaration order.
func Tags() []Tag {
	out := make([]Tag, len(declaredTags))
	copy(out, declaredTags)
	return out
}

func decodeTenths(b []byte) float64 {
	return float64(int16(binary.BigEndian.Uint16(b))) / 10
}

// int24 sign-extends a big-endian 24-bit value.
func int24(b []byte) int32 {
	return int32(uint32(b[0])<<24|uint32(b[1])<<16|uint32(b[2])<<8) >> 8
}

func decodeGrid(b []byte) *ThermalGrid {
	g := &ThermalGrid{Reference: float64(b[0])}
	for i, off := range b[1 : 1+GridCells] {
		g.Cells[i] = g.Reference + float64(off)/10.0
	}
	return g
}

func gridLines(g *ThermalGrid) []string {
	out := make([]string, 0, 1+GridSize)
	out = append(out, fmt.Sprintf("Grideye - Reference temperature: %.1f°C", g.Reference))
	for row := 0; row < GridSize; row++ {
		cols := make([]string, GridSize)
		for col := 0; col < GridSize; col++ {
			cols[col] = fmt.Sprintf("%.1f", g.Cell(row, col))
		}
		out = append(out, strings.Join(cols, "  "))
	}
	return out
}

func line(format string, args ...any) []string {
	return []string{fmt.Sprintf(format, args...)}
}

func ptr[T any](v T) *T {
	return &v
}

func opt[T any](p *T) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}
