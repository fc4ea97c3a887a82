package elsys

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d21d3q/goelsys/internal/testutil"
)

func TestDecodeSingleTags(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		check   func(t *testing.T, r Record)
	}{
		{"temp", []byte{0x01, 0x00, 0x96}, func(t *testing.T, r Record) {
			require.InDelta(t, 15.0, *r.Temp, 1e-9)
		}},
		{"temp negative", []byte{0x01, 0xFF, 0x9C}, func(t *testing.T, r Record) {
			require.InDelta(t, -10.0, *r.Temp, 1e-9)
		}},
		{"rh", []byte{0x02, 0x40}, func(t *testing.T, r Record) {
			require.EqualValues(t, 64, *r.RH)
		}},
		{"acc", []byte{0x03, 0xFE, 0x01, 0x3F}, func(t *testing.T, r Record) {
			require.Equal(t, Acceleration{X: -2, Y: 1, Z: 63}, *r.Acc)
		}},
		{"light", []byte{0x04, 0xFF, 0xFF}, func(t *testing.T, r Record) {
			require.EqualValues(t, 65535, *r.Light)
		}},
		{"motion", []byte{0x05, 0x07}, func(t *testing.T, r Record) {
			require.EqualValues(t, 7, *r.Motion)
		}},
		{"co2", []byte{0x06, 0x03, 0x20}, func(t *testing.T, r Record) {
			require.EqualValues(t, 800, *r.CO2)
		}},
		{"vdd", []byte{0x07, 0x0E, 0x10}, func(t *testing.T, r Record) {
			require.EqualValues(t, 3600, *r.VDD)
		}},
		{"analog1", []byte{0x08, 0x04, 0xB0}, func(t *testing.T, r Record) {
			require.EqualValues(t, 1200, *r.Analog1)
		}},
		{"gps", []byte{0x09, 0x09, 0x05, 0x82, 0xFE, 0x3E, 0xC8}, func(t *testing.T, r Record) {
			// latitude and longitude are independent 24-bit fields
			require.InDelta(t, 59.1234, r.GPS.Lat, 1e-9)
			require.InDelta(t, -11.5, r.GPS.Lon, 1e-9)
		}},
		{"pulse1", []byte{0x0A, 0x00, 0x2A}, func(t *testing.T, r Record) {
			require.EqualValues(t, 42, *r.Pulse1)
		}},
		{"pulse1_abs", []byte{0x0B, 0xFF, 0xFF, 0xFF, 0xFF}, func(t *testing.T, r Record) {
			require.EqualValues(t, uint32(0xFFFFFFFF), *r.Pulse1Abs)
		}},
		{"ext_temp1", []byte{0x0C, 0x00, 0xFA}, func(t *testing.T, r Record) {
			require.InDelta(t, 25.0, *r.ExtTemp1, 1e-9)
		}},
		{"ext_digital", []byte{0x0D, 0x02}, func(t *testing.T, r Record) {
			require.True(t, *r.ExtDigital)
		}},
		{"ext_distance", []byte{0x0E, 0x04, 0xD2}, func(t *testing.T, r Record) {
			require.EqualValues(t, 1234, *r.ExtDistance)
		}},
		{"acc_motion", []byte{0x0F, 0x03}, func(t *testing.T, r Record) {
			require.EqualValues(t, 3, *r.AccMotion)
		}},
		{"ir_temp", []byte{0x10, 0x00, 0xC8, 0xFF, 0x38}, func(t *testing.T, r Record) {
			require.InDelta(t, 20.0, r.IRTemp.Internal, 1e-9)
			require.InDelta(t, -20.0, r.IRTemp.External, 1e-9)
		}},
		{"occupancy", []byte{0x11, 0x02}, func(t *testing.T, r Record) {
			require.EqualValues(t, 2, *r.Occupancy)
		}},
		{"waterleak", []byte{0x12, 0xFF}, func(t *testing.T, r Record) {
			require.EqualValues(t, 255, *r.WaterLeak)
		}},
		{"pressure", []byte{0x14, 0x00, 0x01, 0x86, 0xA0}, func(t *testing.T, r Record) {
			require.InDelta(t, 100.0, *r.Pressure, 1e-9)
		}},
		{"sound", []byte{0x15, 0x5A, 0x32}, func(t *testing.T, r Record) {
			require.Equal(t, Sound{Peak: 90, Average: 50}, *r.Sound)
		}},
		{"pulse2", []byte{0x16, 0x01, 0x00}, func(t *testing.T, r Record) {
			require.EqualValues(t, 256, *r.Pulse2)
		}},
		{"pulse2_abs", []byte{0x17, 0x00, 0x01, 0xE2, 0x40}, func(t *testing.T, r Record) {
			require.EqualValues(t, 123456, *r.Pulse2Abs)
		}},
		{"analog2", []byte{0x18, 0x00, 0x64}, func(t *testing.T, r Record) {
			require.EqualValues(t, 100, *r.Analog2)
		}},
		{"ext_temp2", []byte{0x19, 0xFF, 0xFB}, func(t *testing.T, r Record) {
			require.InDelta(t, -0.5, *r.ExtTemp2, 1e-9)
		}},
		{"ext_digital2", []byte{0x1A, 0x00}, func(t *testing.T, r Record) {
			require.False(t, *r.ExtDigital2)
		}},
		{"ext_analog_uv", []byte{0x1B, 0xFF, 0xFF, 0xFC, 0x18}, func(t *testing.T, r Record) {
			require.EqualValues(t, -1000, *r.ExtAnalogUV)
		}},
		{"debug", []byte{0x3D, 0xDE, 0xAD, 0xBE, 0xEF}, func(t *testing.T, r Record) {
			require.Equal(t, DebugBlock{0xDE, 0xAD, 0xBE, 0xEF}, *r.Debug)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decode(tt.payload)
			require.NoError(t, err)
			tag := Tag(tt.payload[0])
			require.True(t, tag.Known())
			require.Equal(t, []Tag{tag}, rec.Tags())
			for _, other := range Tags() {
				require.Equal(t, other == tag, rec.Has(other), "tag %s", other)
			}
			require.Len(t, rec.Fields(), 1)
			tt.check(t, rec)
		})
	}
}

func TestDecodeGridEye(t *testing.T) {
	payload := append([]byte{byte(TagGridEye), 0x14}, bytes.Repeat([]byte{0x0A}, GridCells)...)
	rec, err := Decode(payload)
	require.NoError(t, err)
	require.NotNil(t, rec.GridEye)
	require.InDelta(t, 20.0, rec.GridEye.Reference, 1e-9)
	for i, cell := range rec.GridEye.Cells {
		require.InDelta(t, 21.0, cell, 1e-9, "cell %d", i)
	}
}

func TestDecodeGridEyeRowMajor(t *testing.T) {
	payload := []byte{byte(TagGridEye), 0x10}
	for i := 0; i < GridCells; i++ {
		payload = append(payload, byte(i))
	}
	rec, err := Decode(payload)
	require.NoError(t, err)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			want := 16 + float64(row*GridSize+col)/10
			require.InDelta(t, want, rec.GridEye.Cell(row, col), 1e-9)
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	for _, tag := range Tags() {
		width, _ := tag.Width()
		for have := 0; have < width; have++ {
			payload := append([]byte{byte(tag)}, make([]byte, have)...)
			rec, err := Decode(payload)
			require.Error(t, err, "tag %s with %d bytes", tag, have)
			require.True(t, errors.Is(err, ErrTruncated))
			var trunc *TruncatedError
			require.True(t, errors.As(err, &trunc))
			require.Equal(t, tag, trunc.Tag)
			require.Equal(t, width, trunc.Needed)
			require.Equal(t, have, trunc.Available)
			require.True(t, rec.Empty())
		}
	}
}

func TestDecodeTruncatedAfterValidTag(t *testing.T) {
	rec, err := Decode([]byte{0x02, 0x40, 0x14, 0x00, 0x01})
	var trunc *TruncatedError
	require.ErrorAs(t, err, &trunc)
	require.Equal(t, TagPressure, trunc.Tag)
	require.Equal(t, 2, trunc.Offset)
	require.Equal(t, 4, trunc.Needed)
	require.Equal(t, 2, trunc.Available)
	require.Contains(t, err.Error(), "pressure")
	require.Nil(t, rec.RH)
}

func TestDecodeUnknownTag(t *testing.T) {
	rec, err := Decode([]byte{0xFF})
	require.NoError(t, err)
	require.True(t, rec.Empty())
	require.Empty(t, rec.Fields())

	rec, err = Decode([]byte{0x00, 0xFF, 0x02, 0x40, 0x3C})
	require.NoError(t, err)
	require.Equal(t, []Tag{TagRH}, rec.Tags())
	require.EqualValues(t, 64, *rec.RH)
}

func TestDecodeEmpty(t *testing.T) {
	for _, payload := range [][]byte{nil, {}} {
		rec, err := Decode(payload)
		require.NoError(t, err)
		require.True(t, rec.Empty())
	}
}

func TestDecodeLastOccurrenceWins(t *testing.T) {
	rec, err := Decode([]byte{0x02, 0x10, 0x01, 0x00, 0x96, 0x02, 0x20})
	require.NoError(t, err)
	require.EqualValues(t, 0x20, *rec.RH)
	require.Equal(t, []Tag{TagRH, TagTemp}, rec.Tags())
}

func TestDecodeMultiTagOrder(t *testing.T) {
	forward, err := Decode([]byte{0x01, 0x00, 0x96, 0x02, 0x40})
	require.NoError(t, err)
	reverse, err := Decode([]byte{0x02, 0x40, 0x01, 0x00, 0x96})
	require.NoError(t, err)

	require.Equal(t, forward.Fields(), reverse.Fields())
	require.Equal(t, []Tag{TagTemp, TagRH}, forward.Tags())
	require.Equal(t, []Tag{TagRH, TagTemp}, reverse.Tags())
}

func TestDecodeFixture(t *testing.T) {
	rec, err := Decode(testutil.LoadPayload(t, "elsys/ems_gps.hex"))
	require.NoError(t, err)
	require.Equal(t, []Tag{TagTemp, TagAcc, TagGPS, TagPressure, TagDebug}, rec.Tags())
	require.InDelta(t, -10.0, *rec.Temp, 1e-9)
	require.InDelta(t, 100.0, *rec.Pressure, 1e-9)
	require.Equal(t, "deadbeef", rec.Debug.String())
}
