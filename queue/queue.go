// Package queue provides the priority queues used as open lists by the
// search maps.
//
// Queues are parameterized by a Handler, a zero-size policy type that knows
// how to compare, read and write the priority of an element. The front of a
// queue is always the element with the lowest cost.
package queue

// Priority is the set of numeric types usable as a priority.
type Priority interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Handler is the priority policy of an element type.
//
// LessPriority reports whether a ranks behind b, that is, whether a carries
// the larger cost.
type Handler[T any, P Priority] interface {
	LessPriority(a, b T) bool
	Priority(a T) P
	SetPriority(a *T, p P)
}

// Queue is the contract shared by all priority queues.
type Queue[T any, P Priority] interface {
	// Insert adds an element according to its priority.
	Insert(e T)
	// RemoveFront removes and returns the element with the lowest cost.
	RemoveFront() T
	// Front returns the element with the lowest cost without removing it.
	Front() T
	// Find returns the index of e, or -1.
	Find(e T) int
	// IncreasePriority lowers the cost of e to p.
	IncreasePriority(e T, p P)
	IsEmpty() bool
	Clear()
	Size() int
}

// Heap is a Queue that can absorb a batch of elements at once.
type Heap[T any, P Priority] interface {
	Queue[T, P]
	// Load appends items and restores the heap property.
	Load(items []T)
}
