package queue

import "container/heap"

// priorityQueue adapts a handler-ordered slice to heap.Interface.
type priorityQueue[T any, P Priority, H Handler[T, P]] struct {
	items   []T
	handler H
}

func (queue *priorityQueue[T, P, H]) Len() int { return len(queue.items) }

// Less puts the cheaper element first, so LessPriority is consulted with
// the arguments swapped.
func (queue *priorityQueue[T, P, H]) Less(i, j int) bool {
	return queue.handler.LessPriority(queue.items[j], queue.items[i])
}

func (queue *priorityQueue[T, P, H]) Swap(i, j int) {
	queue.items[i], queue.items[j] = queue.items[j], queue.items[i]
}

func (queue *priorityQueue[T, P, H]) Push(x any) {
	queue.items = append(queue.items, x.(T))
}

func (queue *priorityQueue[T, P, H]) Pop() any {
	oldQueue := queue.items
	n := len(oldQueue)
	item := oldQueue[n-1]
	var zero T
	oldQueue[n-1] = zero
	queue.items = oldQueue[:n-1]
	return item
}

// StdHeap implements Heap on top of container/heap.
type StdHeap[T comparable, P Priority, H Handler[T, P]] struct {
	queue priorityQueue[T, P, H]
}

// NewStdHeap returns an empty heap.
func NewStdHeap[T comparable, P Priority, H Handler[T, P]]() *StdHeap[T, P, H] {
	return &StdHeap[T, P, H]{}
}

func (q *StdHeap[T, P, H]) Insert(e T) { heap.Push(&q.queue, e) }

func (q *StdHeap[T, P, H]) RemoveFront() T {
	if q.queue.Len() == 0 {
		panic("queue: RemoveFront on empty std heap")
	}
	return heap.Pop(&q.queue).(T)
}

func (q *StdHeap[T, P, H]) Front() T {
	if q.queue.Len() == 0 {
		panic("queue: Front on empty std heap")
	}
	return q.queue.items[0]
}

func (q *StdHeap[T, P, H]) Find(e T) int {
	for i, item := range q.queue.items {
		if item == e {
			return i
		}
	}
	return -1
}

func (q *StdHeap[T, P, H]) IncreasePriority(e T, p P) {
	i := q.Find(e)
	if i < 0 {
		panic("queue: IncreasePriority of an element not in the heap")
	}
	q.queue.handler.SetPriority(&q.queue.items[i], p)
	heap.Fix(&q.queue, i)
}

func (q *StdHeap[T, P, H]) IsEmpty() bool { return q.queue.Len() == 0 }

func (q *StdHeap[T, P, H]) Clear() {
	clear(q.queue.items)
	q.queue.items = q.queue.items[:0]
}

func (q *StdHeap[T, P, H]) Size() int { return q.queue.Len() }

func (q *StdHeap[T, P, H]) Load(items []T) {
	q.queue.items = append(q.queue.items, items...)
	heap.Init(&q.queue)
}
