package utils

import (
	"errors"
	"strconv"
)

var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive id. Keys are int4 columns, so anything past
// math.MaxInt32 is rejected rather than sent to the database.
func ParseID(s string) (int, error) {
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return int(id), nil
}

// ParsePositiveInt parses an optional query value, returning def when raw
// is empty. ok is false for non-integers and values below 1.
func ParsePositiveInt(raw string, def int) (value int, ok bool) {
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}
