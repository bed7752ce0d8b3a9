// internal/domain/homework/errors.go
package homework

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Typed errors below match them through errors.Is.
var (
	ErrTransport     = errors.New("status api request failed")
	ErrStructure     = errors.New("malformed status api response")
	ErrUnknownStatus = errors.New("unknown homework status")
	ErrDelivery      = errors.New("notification delivery failed")
)

// TransportReason tells apart the ways a single API request can fail.
type TransportReason string

const (
	ReasonNetwork TransportReason = "network"
	ReasonStatus  TransportReason = "status"
	ReasonBody    TransportReason = "body"
)

// TransportError is returned by the API client for any failed request.
type TransportError struct {
	Reason     TransportReason
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch e.Reason {
	case ReasonStatus:
		return fmt.Sprintf("%v: unexpected http status %d", ErrTransport, e.StatusCode)
	default:
		if e.Err == nil {
			return fmt.Sprintf("%v (%s)", ErrTransport, e.Reason)
		}
		return fmt.Sprintf("%v (%s): %v", ErrTransport, e.Reason, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// StructuralError reports a response or homework that does not have the expected shape.
type StructuralError struct {
	Field   string
	Problem string
}

func (e *StructuralError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrStructure, e.Problem)
	}
	return fmt.Sprintf("%v: %q %s", ErrStructure, e.Field, e.Problem)
}

func (e *StructuralError) Is(target error) bool { return target == ErrStructure }

// UnknownStatusError means the API returned a status missing from Verdicts.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownStatus, e.Status)
}

func (e *UnknownStatusError) Is(target error) bool { return target == ErrUnknownStatus }

// DeliveryError wraps a failure of the messaging channel.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return fmt.Sprintf("%v: %v", ErrDelivery, e.Err) }

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }
