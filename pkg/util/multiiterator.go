package util

import (
	"container/heap"
	"iter"
)

type queueItem[T any] struct {
	next func() (T, bool)
	stop func()
	last T
}

type iteratorQueue[T any] struct {
	items []queueItem[T]
	cmp   func(a, b T) int
}

func (iq iteratorQueue[T]) Len() int {
	return len(iq.items)
}

func (iq iteratorQueue[T]) Less(i, j int) bool {
	return iq.cmp(iq.items[i].last, iq.items[j].last) < 0
}

func (iq iteratorQueue[T]) Swap(i, j int) {
	iq.items[i], iq.items[j] = iq.items[j], iq.items[i]
}

func (iq *iteratorQueue[T]) Push(x any) {
	iq.items = append(iq.items, x.(queueItem[T]))
}

func (iq *iteratorQueue[T]) Pop() any {
	lastIndex := len(iq.items) - 1
	top := iq.items[lastIndex]
	iq.items = iq.items[:lastIndex]
	return top
}

// MultiIterator merges sequences that are each sorted by cmp into one
// sorted sequence. Every input is pulled only as far as needed.
func MultiIterator[T any](seqs []iter.Seq[T], cmp func(a, b T) int) iter.Seq[T] {
	return func(yield func(T) bool) {
		iq := &iteratorQueue[T]{cmp: cmp}
		defer func() {
			for _, itm := range iq.items {
				itm.stop()
			}
		}()

		for _, seq := range seqs {
			next, stop := iter.Pull(seq)
			last, ok := next()
			if !ok {
				stop()
				continue
			}
			iq.items = append(iq.items, queueItem[T]{next: next, stop: stop, last: last})
		}

		heap.Init(iq)

		for iq.Len() > 0 {
			itm := heap.Pop(iq).(queueItem[T])
			last := itm.last
			if next, ok := itm.next(); ok {
				itm.last = next
				heap.Push(iq, itm)
			} else {
				itm.stop()
			}
			if !yield(last) {
				return
			}
		}
	}
}
