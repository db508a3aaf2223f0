package view

import "context"

// ApplyOptimistic generalizes the optimistic-mutation pattern: apply runs
// immediately against local state, persist saves the change to the external
// store, and rollback restores the pre-mutation snapshot when persistence
// fails. The persistence error is returned so the caller can surface it.
func ApplyOptimistic(ctx context.Context, apply func(), persist func(context.Context) error, rollback func()) error {
	apply()
	if err := persist(ctx); err != nil {
		rollback()
		return err
	}
	return nil
}
