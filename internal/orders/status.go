package orders

import "fmt"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {StatusCompleted: true, StatusCancelled: true},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func ParseStatus(s string) (Status, bool) {
	if _, ok := validNext[Status(s)]; ok {
		return Status(s), true
	}
	return "", false
}

// TransitionError explains why a move is illegal, distinguishing the two
// terminal states from an undefined edge.
func TransitionError(from, to Status) error {
	switch from {
	case StatusCompleted:
		return fmt.Errorf("cannot change status of a completed order")
	case StatusCancelled:
		return fmt.Errorf("cannot change status of a cancelled order")
	default:
		return fmt.Errorf("invalid status transition from %s to %s", from, to)
	}
}
