// internal/domain/homework/extract.go
package homework

import (
	"bytes"
	"encoding/json"
)

// Outcome distinguishes a response carrying a homework from an empty one.
type Outcome int

const (
	OutcomeFound Outcome = iota + 1
	OutcomeEmpty
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Extraction is the validated view of one API response.
// Item is set only when Outcome is OutcomeFound.
type Extraction struct {
	Outcome     Outcome
	Item        json.RawMessage
	currentDate *int64
}

// CurrentDate returns the server timestamp echoed in the response, if it was a valid integer.
func (e Extraction) CurrentDate() (int64, bool) {
	if e.currentDate == nil {
		return 0, false
	}
	return *e.currentDate, true
}

// NextCursor returns the cursor to use after this response was observed.
func (e Extraction) NextCursor(prev int64) int64 {
	if ts, ok := e.CurrentDate(); ok {
		return ts
	}
	return prev
}

// Extract validates the response body and picks the most recent homework.
// The API lists homeworks newest first, so only the first element matters.
// An empty list yields OutcomeEmpty with a nil error.
func Extract(body []byte) (Extraction, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return Extraction{}, &StructuralError{Problem: "response is not a JSON object"}
	}

	raw, ok := fields["homeworks"]
	if !ok {
		return Extraction{}, &StructuralError{Field: "homeworks", Problem: "is missing"}
	}
	var homeworks []json.RawMessage
	if !isArray(raw) || json.Unmarshal(raw, &homeworks) != nil {
		return Extraction{}, &StructuralError{Field: "homeworks", Problem: "is not a list"}
	}

	ext := Extraction{Outcome: OutcomeEmpty}
	if rawDate, ok := fields["current_date"]; ok {
		var ts int64
		if err := json.Unmarshal(rawDate, &ts); err == nil {
			ext.currentDate = &ts
		}
	}
	if len(homeworks) > 0 {
		ext.Outcome = OutcomeFound
		ext.Item = homeworks[0]
	}
	return ext, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	// "null" decodes into a nil map without error.
	if fields == nil {
		return nil, &StructuralError{Problem: "null object"}
	}
	return fields, nil
}

func isArray(raw json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("["))
}
