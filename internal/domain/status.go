package domain

import "fmt"

type Status string

const (
	StatusWaiting Status = "WAITING"
	StatusReady   Status = "READY"
	StatusPaid    Status = "PAID"
)

var statuses = []Status{StatusWaiting, StatusReady, StatusPaid}

// Statuses returns every known order status.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func (s Status) Valid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts raw input into a Status, rejecting unknown values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q, expected one of %v", raw, statuses)
	}
	return s, nil
}
