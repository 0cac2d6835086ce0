package core

import "sync"

// Batches is a lazy, single-pass, forward-only sequence of result
// batches. The underlying cursor stays open for the whole iteration and
// is released exactly once: either when the sequence is exhausted or
// when the consumer abandons it early via Close.
//
// Consumers should defer Close right after obtaining the stream:
//
//	batches, err := retriever.FetchTableBatches(ctx, query, size)
//	if err != nil { ... }
//	defer batches.Close()
//	for batches.HasNext() {
//		batch, err := batches.Next()
//		...
//	}
type Batches[T any] struct {
	next    func() (T, error)
	hasNext func() bool
	close   func()
	once    sync.Once
}

func newBatches[T any](next func() (T, error), hasNext func() bool, close func()) *Batches[T] {
	return &Batches[T]{
		next:    next,
		hasNext: hasNext,
		close:   close,
	}
}

// HasNext reports whether another batch is available. When the sequence
// is exhausted, the underlying cursor is released.
func (b *Batches[T]) HasNext() bool {
	if !b.hasNext() {
		b.Close()
		return false
	}
	return true
}

// Next returns the next batch. On error the stream is closed and no
// further batches are available.
func (b *Batches[T]) Next() (T, error) {
	batch, err := b.next()
	if err != nil {
		b.Close()
		var zero T
		return zero, err
	}
	return batch, nil
}

// Close releases the underlying cursor. It is idempotent and safe to
// call at any point of the iteration.
func (b *Batches[T]) Close() {
	b.once.Do(b.close)
	b.hasNext = func() bool { return false }
}
