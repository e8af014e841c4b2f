package selection

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// JSONScore is a score that survives JSON encoding. JSON numbers cannot hold
// +Inf, so it is written as the string "Inf".
type JSONScore float64

const infLiteral = `"Inf"`

// MarshalJSON implements json.Marshaler.
func (s JSONScore) MarshalJSON() ([]byte, error) {
	f := float64(s)
	switch {
	case math.IsInf(f, 1):
		return []byte(infLiteral), nil
	case math.IsNaN(f) || math.IsInf(f, -1):
		return nil, fmt.Errorf("unsupported score %v", f)
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *JSONScore) UnmarshalJSON(b []byte) error {
	if string(b) == infLiteral {
		*s = JSONScore(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("decode score: %w", err)
	}
	*s = JSONScore(f)
	return nil
}
