package voltgrid

import (
	"bytes"
	"math"
	"strconv"
)

// flexFloat decodes a JSON number that the backend sometimes serializes
// as a string ("17.3850") and sometimes as a number (17.385).
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		// An unparseable value keeps the record alive but fails the
		// coordinate validity check, so the map layer drops it.
		*f = flexFloat(math.NaN())
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// intBool decodes the backend's boolean-as-int fields (0/1), tolerating
// real JSON booleans as well.
type intBool bool

func (b *intBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.Trim(data, `"`)) {
	case "1", "true":
		*b = true
	default:
		*b = false
	}
	return nil
}
