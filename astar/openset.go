package astar

// openEntry is a frontier node plus its insertion order.
type openEntry struct {
	node Node
	seq  int
}

// openSet is a container/heap min-heap ordered by F, then H, then insertion
// order, so equal candidates always resolve to the one seen first.
type openSet []openEntry

func (q openSet) Len() int { return len(q) }

func (q openSet) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.node.F != b.node.F {
		return a.node.F < b.node.F
	}
	if a.node.H != b.node.H {
		return a.node.H < b.node.H
	}
	return a.seq < b.seq
}

func (q openSet) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *openSet) Push(x any) {
	*q = append(*q, x.(openEntry))
}

func (q *openSet) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
