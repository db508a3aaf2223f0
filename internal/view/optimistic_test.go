package view

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

func TestApplyOptimisticKeepsChangeOnSuccess(t *testing.T) {
	ticket := domain.Ticket{Status: domain.TicketStatusNew}
	snapshot := ticket

	err := ApplyOptimistic(context.Background(),
		func() { ticket.Status = domain.TicketStatusDone },
		func(context.Context) error { return nil },
		func() { ticket = snapshot },
	)

	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusDone, ticket.Status)
}

func TestApplyOptimisticRollsBackOnFailure(t *testing.T) {
	ticket := domain.Ticket{Status: domain.TicketStatusNew, Priority: domain.TicketPriorityLow}
	snapshot := ticket
	persistErr := errors.New("store unavailable")

	err := ApplyOptimistic(context.Background(),
		func() { ticket.Status = domain.TicketStatusDone },
		func(context.Context) error { return persistErr },
		func() { ticket = snapshot },
	)

	require.ErrorIs(t, err, persistErr)
	assert.Equal(t, snapshot, ticket, "failed save must leave no field mutated")
}
