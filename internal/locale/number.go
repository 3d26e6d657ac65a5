package locale

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Number is a float that decodes from a JSON number or from a pt-BR formatted
// string such as "1.234,56". null and "" decode to zero.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidNumber, err)
		}
		if s == "" {
			*n = 0
			return nil
		}
		v, err := ParseNumber(s)
		if err != nil {
			return err
		}
		*n = Number(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidNumber, data)
	}
	*n = Number(v)
	return nil
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 { return float64(n) }
