package csvsource

import (
	"encoding/json"
	"strings"
)

// ParseList decodes a serialized list cell such as "['E1', 'C2']". Single
// quotes are normalised to double quotes before decoding. Empty or malformed
// cells yield an empty list.
func ParseList(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(strings.ReplaceAll(cell, "'", `"`)), &out); err != nil {
		return []string{}
	}
	ids := make([]string, 0, len(out))
	for _, s := range out {
		if s = strings.TrimSpace(s); s != "" {
			ids = append(ids, s)
		}
	}
	return ids
}
