package codec

import (
	"encoding/json"

	"simkit/internal/domain"
)

// JSON returns a decoder for the tool's JSON output. Unknown fields are
// ignored, missing required fields fail.
func JSON[T any]() DecodeFunc[T] {
	return func(data []byte) (T, error) {
		var out T
		if err := json.Unmarshal(data, &out); err != nil {
			return out, &domain.DecodeError{Format: "json", Err: err}
		}
		if err := checkRequired(out); err != nil {
			return out, &domain.DecodeError{Format: "json", Err: err}
		}
		return out, nil
	}
}
