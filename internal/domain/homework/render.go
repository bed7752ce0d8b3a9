// internal/domain/homework/render.go
package homework

import (
	"encoding/json"
	"fmt"
)

// Parse validates a raw homework item and returns its typed form.
func Parse(item json.RawMessage) (Homework, error) {
	fields, err := decodeObject(item)
	if err != nil {
		return Homework{}, &StructuralError{Problem: "homework is not a JSON object"}
	}

	status, err := stringField(fields, "status")
	if err != nil {
		return Homework{}, err
	}
	name, err := stringField(fields, "homework_name")
	if err != nil {
		return Homework{}, err
	}
	return Homework{Name: name, Status: Status(status)}, nil
}

// Render builds the notification text for a raw homework item.
// It has no side effects.
func Render(item json.RawMessage) (string, error) {
	hw, err := Parse(item)
	if err != nil {
		return "", err
	}
	return hw.Message()
}

// Message formats the status change notification for hw.
func (hw Homework) Message() (string, error) {
	verdict, ok := hw.Status.Verdict()
	if !ok {
		return "", &UnknownStatusError{Status: string(hw.Status)}
	}
	return fmt.Sprintf("Status changed for \"%s\". %s", hw.Name, verdict), nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", &StructuralError{Field: key, Problem: "is missing"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &StructuralError{Field: key, Problem: "is not a string"}
	}
	return s, nil
}
