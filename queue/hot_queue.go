package queue

import "math"

// DefaultBucketWidth is the diagonal step of a unit grid. Grid searches
// produce costs in multiples of it, which makes it a good bucket width.
const DefaultBucketWidth = 1.4143

// HotQueue is a two level queue: a small "hot" heap holding the cheapest
// band of costs, and "cold" buckets of width kc holding everything else.
// When the hot heap drains, the next non-empty cold bucket is heapified
// into it. Elements whose costs cluster in a narrow band, as on a grid,
// mostly skip heap maintenance.
//
// Every hot element has bucket index <= threshold; cold[k] holds the
// elements of bucket threshold+1+k.
type HotQueue[T comparable, P Priority, H Handler[T, P]] struct {
	hot       Heap[T, P]
	cold      [][]T
	threshold int
	primed    bool
	kc        float64
	count     int
	handler   H
}

// NewHotQueue returns a HotQueue whose hot part is a BinaryHeap.
// A non-positive kc selects DefaultBucketWidth.
func NewHotQueue[T comparable, P Priority, H Handler[T, P]](kc float64) *HotQueue[T, P, H] {
	return NewHotQueueOver[T, P, H](kc, NewBinaryHeap[T, P, H]())
}

// NewHotQueueOver returns a HotQueue using hot as its hot heap.
func NewHotQueueOver[T comparable, P Priority, H Handler[T, P]](kc float64, hot Heap[T, P]) *HotQueue[T, P, H] {
	if kc <= 0 {
		kc = DefaultBucketWidth
	}
	return &HotQueue[T, P, H]{hot: hot, kc: kc}
}

func (q *HotQueue[T, P, H]) bucket(e T) int {
	return int(math.Floor(float64(q.handler.Priority(e)) / q.kc))
}

func (q *HotQueue[T, P, H]) Insert(e T) {
	q.count++
	i := q.bucket(e)
	if !q.primed {
		q.threshold = i
		q.primed = true
	}
	if i <= q.threshold {
		q.hot.Insert(e)
		return
	}
	for len(q.cold) < i-q.threshold {
		q.cold = append(q.cold, nil)
	}
	k := i - q.threshold - 1
	q.cold[k] = append(q.cold[k], e)
}

func (q *HotQueue[T, P, H]) RemoveFront() T {
	q.keepHot()
	q.count--
	return q.hot.RemoveFront()
}

func (q *HotQueue[T, P, H]) Front() T {
	q.keepHot()
	return q.hot.Front()
}

// Find returns the index of e inside the hot heap or inside its cold
// bucket, whichever holds it.
func (q *HotQueue[T, P, H]) Find(e T) int {
	i := q.bucket(e)
	if i <= q.threshold {
		return q.hot.Find(e)
	}
	k := i - q.threshold - 1
	if k >= len(q.cold) {
		return -1
	}
	for j, item := range q.cold[k] {
		if item == e {
			return j
		}
	}
	return -1
}

func (q *HotQueue[T, P, H]) IncreasePriority(e T, p P) {
	if q.bucket(e) <= q.threshold {
		q.hot.IncreasePriority(e, p)
		return
	}
	q.eraseFromCold(e)
	q.handler.SetPriority(&e, p)
	q.Insert(e)
}

func (q *HotQueue[T, P, H]) IsEmpty() bool { return q.count == 0 }

func (q *HotQueue[T, P, H]) Clear() {
	q.hot.Clear()
	q.cold = nil
	q.threshold = 0
	q.primed = false
	q.count = 0
}

func (q *HotQueue[T, P, H]) Size() int { return q.count }

func (q *HotQueue[T, P, H]) eraseFromCold(e T) {
	j := q.Find(e)
	if j < 0 {
		panic("queue: IncreasePriority of an element not in the hot queue")
	}
	k := q.bucket(e) - q.threshold - 1
	q.cold[k] = append(q.cold[k][:j], q.cold[k][j+1:]...)
	q.count--
}

// keepHot refills an empty hot heap from the first non-empty cold bucket.
func (q *HotQueue[T, P, H]) keepHot() {
	if !q.hot.IsEmpty() {
		return
	}
	if q.count == 0 {
		panic("queue: front of empty hot queue")
	}
	for len(q.cold[0]) == 0 {
		q.cold = q.cold[1:]
		q.threshold++
	}
	q.hot.Load(q.cold[0])
	q.cold = q.cold[1:]
	q.threshold++
}
