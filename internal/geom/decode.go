package geom

import "encoding/json"

// Decode parses raw bytes as a single JSON value of any shape.
func Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
