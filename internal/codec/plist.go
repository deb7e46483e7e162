package codec

import (
	"howett.net/plist"

	"simkit/internal/domain"
)

// PropertyList returns a decoder for the tool's property-list output, which
// arrives in either the XML or the binary encoding depending on tool version.
// Same contract as JSON: unknown keys ignored, missing required fields fail.
func PropertyList[T any]() DecodeFunc[T] {
	return func(data []byte) (T, error) {
		var out T
		if _, err := plist.Unmarshal(data, &out); err != nil {
			return out, &domain.DecodeError{Format: "plist", Err: err}
		}
		if err := checkRequired(out); err != nil {
			return out, &domain.DecodeError{Format: "plist", Err: err}
		}
		return out, nil
	}
}
