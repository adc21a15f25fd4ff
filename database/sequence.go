package database

import (
	"context"
	"fmt"
)

// allocateSequenceQuery bumps the branch counter in one statement. A branch's first
// allocation is seeded from its highest existing customer so legacy rows are skipped.
const allocateSequenceQuery = `
	INSERT INTO onboard.branch_sequences (branch_code, last_seq, updated_at)
	VALUES ($1, GREATEST(COALESCE((SELECT MAX(seq_id) FROM onboard.customers WHERE branch_code = $1), 0) + 1, $2), NOW())
	ON CONFLICT (branch_code) DO UPDATE
	SET last_seq = GREATEST(onboard.branch_sequences.last_seq + 1, EXCLUDED.last_seq), updated_at = NOW()
	RETURNING last_seq
`

// AllocateSequence reserves the next customer sequence number of a branch. The counter
// row stays locked until uow finishes, so concurrent onboardings in one branch serialize.
func (d Datasource) AllocateSequence(ctx context.Context, uow UnitOfWork, branchCode string, floor int64) (int64, error) {
	var seq int64
	err := d.exec(uow).QueryRowContext(ctx, allocateSequenceQuery, branchCode, floor).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence for branch %s: %w", branchCode, err)
	}
	return seq, nil
}
