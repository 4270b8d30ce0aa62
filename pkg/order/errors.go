package order

import (
	"fmt"
	"strings"
)

// ValidationError carries every violation found in a single validation
// pass, in the order the checks run. Error() reports the first one, the
// hard rejection reason.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return e.Violations[0]
}

// All joins every violation for diagnostic output.
func (e *ValidationError) All() string {
	return strings.Join(e.Violations, "; ")
}

// NotFoundError identifies a missing resource by what the caller called
// it, so rejections can name the offending item.
type NotFoundError struct {
	Resource string
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Name)
}

// StateConflictError rejects a transition the lifecycle does not allow,
// naming the order's current status.
type StateConflictError struct {
	Current   string
	Requested string
}

func (e *StateConflictError) Error() string {
	if e.Requested == "" {
		return fmt.Sprintf("cannot cancel order in current status: %s", e.Current)
	}
	return fmt.Sprintf("cannot move order from %s to %s", e.Current, e.Requested)
}
