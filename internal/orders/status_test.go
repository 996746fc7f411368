package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusPending, StatusProcessing, StatusShipped,
	StatusDelivered, StatusCompleted, StatusCancelled,
}

func TestCanTransitionAllowsOnlyDefinedEdges(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered, StatusCancelled},
		StatusDelivered:  {StatusCompleted, StatusCancelled},
		StatusCompleted:  {},
		StatusCancelled:  {},
	}
	for _, from := range allStatuses {
		ok := map[Status]bool{}
		for _, to := range allowed[from] {
			ok[to] = true
		}
		for _, to := range allStatuses {
			assert.Equal(t, ok[to], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusCancelled} {
		for _, to := range allStatuses {
			assert.False(t, CanTransition(from, to), "%s must be terminal, got edge to %s", from, to)
		}
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("SHIPPED")
	require.True(t, ok)
	assert.Equal(t, StatusShipped, s)

	_, ok = ParseStatus("shipped")
	assert.False(t, ok)
	_, ok = ParseStatus("RETURNED")
	assert.False(t, ok)
	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestTransitionErrorMessages(t *testing.T) {
	assert.EqualError(t, TransitionError(StatusCompleted, StatusPending),
		"cannot change status of a completed order")
	assert.EqualError(t, TransitionError(StatusCancelled, StatusPending),
		"cannot change status of a cancelled order")
	assert.EqualError(t, TransitionError(StatusPending, StatusShipped),
		"invalid status transition from PENDING to SHIPPED")
}
