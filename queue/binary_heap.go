package queue

// BinaryHeap is an array-backed binary heap. Percolation is hand written
// rather than delegated to container/heap.
type BinaryHeap[T comparable, P Priority, H Handler[T, P]] struct {
	items   []T
	handler H
}

// NewBinaryHeap returns an empty heap.
func NewBinaryHeap[T comparable, P Priority, H Handler[T, P]]() *BinaryHeap[T, P, H] {
	return &BinaryHeap[T, P, H]{}
}

func (q *BinaryHeap[T, P, H]) Insert(e T) {
	q.items = append(q.items, e)
	q.up(len(q.items) - 1)
}

func (q *BinaryHeap[T, P, H]) RemoveFront() T {
	if len(q.items) == 0 {
		panic("queue: RemoveFront on empty binary heap")
	}
	front := q.items[0]
	last := len(q.items) - 1
	q.items[0] = q.items[last]
	var zero T
	q.items[last] = zero
	q.items = q.items[:last]
	if last > 0 {
		q.down(0)
	}
	return front
}

func (q *BinaryHeap[T, P, H]) Front() T {
	if len(q.items) == 0 {
		panic("queue: Front on empty binary heap")
	}
	return q.items[0]
}

// Find is a linear scan; open lists stay small enough for this to be fine.
func (q *BinaryHeap[T, P, H]) Find(e T) int {
	for i, item := range q.items {
		if item == e {
			return i
		}
	}
	return -1
}

func (q *BinaryHeap[T, P, H]) IncreasePriority(e T, p P) {
	i := q.Find(e)
	if i < 0 {
		panic("queue: IncreasePriority of an element not in the heap")
	}
	q.handler.SetPriority(&q.items[i], p)
	q.up(i)
}

func (q *BinaryHeap[T, P, H]) IsEmpty() bool { return len(q.items) == 0 }

func (q *BinaryHeap[T, P, H]) Clear() {
	clear(q.items)
	q.items = q.items[:0]
}

func (q *BinaryHeap[T, P, H]) Size() int { return len(q.items) }

func (q *BinaryHeap[T, P, H]) Load(items []T) {
	q.items = append(q.items, items...)
	for i := len(q.items)/2 - 1; i >= 0; i-- {
		q.sift(i)
	}
}

// Items returns a copy of the heap array in storage order.
func (q *BinaryHeap[T, P, H]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// up percolates the element at i toward the root.
func (q *BinaryHeap[T, P, H]) up(i int) {
	value := q.items[i]
	hole := i
	for hole > 0 {
		parent := (hole - 1) / 2
		if !q.handler.LessPriority(q.items[parent], value) {
			break
		}
		q.items[hole] = q.items[parent]
		hole = parent
	}
	q.items[hole] = value
}

// down moves the hole at i to a leaf along the cheaper children, then
// drops the displaced value there and percolates it back up.
func (q *BinaryHeap[T, P, H]) down(i int) {
	n := len(q.items)
	value := q.items[i]
	hole := i
	child := 2 * (hole + 1)
	for child < n {
		if q.handler.LessPriority(q.items[child], q.items[child-1]) {
			child--
		}
		q.items[hole] = q.items[child]
		hole = child
		child = 2 * (child + 1)
	}
	if child == n {
		q.items[hole] = q.items[child-1]
		hole = child - 1
	}
	q.items[hole] = value
	q.up(hole)
}

// sift is the bounded sift-down used to heapify a loaded batch.
func (q *BinaryHeap[T, P, H]) sift(i int) {
	n := len(q.items)
	for {
		best := i
		left, right := 2*i+1, 2*i+2
		if left < n && q.handler.LessPriority(q.items[best], q.items[left]) {
			best = left
		}
		if right < n && q.handler.LessPriority(q.items[best], q.items[right]) {
			best = right
		}
		if best == i {
			return
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}
