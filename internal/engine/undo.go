package engine

// undoLog collects the inverse of every book and ledger mutation made
// during one matching pass. Rollback replays the inverses in reverse
// order, so a failed pass leaves books, credits, and positions exactly
// as they were before the call.
type undoLog struct {
	ops []func()
}

func (u *undoLog) push(op func()) {
	u.ops = append(u.ops, op)
}

func (u *undoLog) rollback() {
	for i := len(u.ops) - 1; i >= 0; i-- {
		u.ops[i]()
	}
	u.ops = nil
}
