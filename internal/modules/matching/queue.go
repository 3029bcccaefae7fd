// README: FIFO of pending rider ids, guarded by the engine's critical section.
package matching

import "hexride/internal/types"

// riderQueue is a plain slice FIFO. It carries no locking of its own: the
// engine mutex guards it together with the registries and the spatial index,
// and the engine's condition variable provides the wait/notify protocol.
type riderQueue struct {
	items []types.ID
}

func (q *riderQueue) push(id types.ID) {
	q.items = append(q.items, id)
}

func (q *riderQueue) pop() types.ID {
	id := q.items[0]
	q.items = q.items[1:]
	return id
}

func (q *riderQueue) empty() bool {
	return len(q.items) == 0
}
