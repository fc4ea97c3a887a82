package elsys

import (
	"errors"
	"fmt"
)

// ErrTruncated matches every TruncatedError via errors.Is.
var ErrTruncated = errors.New("elsys payload truncated")

// TruncatedError reports a known tag whose value runs past the end of the
// payload.
type TruncatedError struct {
	Tag       Tag
	Offset    int // position of the tag byte
	Needed    int
	Available int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("elsys payload truncated: tag %s (0x%02X) at offset %d needs %d bytes, %d available",
		e.Tag, byte(e.Tag), e.Offset, e.Needed, e.Available)
}

// Is implements errors.Is support for ErrTruncated.
func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncated
}

// Decode walks the payload tag by tag and returns the decoded record. Unknown
// tag bytes are skipped on their own. A repeated tag overwrites the earlier
// value. No partial record is returned on error.
func Decode(payload []byte) (Record, error) {
	var rec Record
	i := 0
	for i < len(payload) {
		tag := Tag(payload[i])
		spec, ok := tagSpecs[tag]
		if !ok {
			i++
			continue
		}
		start := i + 1
		if start+spec.width > len(payload) {
			return Record{}, &TruncatedError{
				Tag:       tag,
				Offset:    i,
				Needed:    spec.width,
				Available: len(payload) - start,
			}
		}
		spec.decode(&rec, payload[start:start+spec.width])
		rec.seen(tag)
		i = start + spec.width
	}
	return rec, nil
}
