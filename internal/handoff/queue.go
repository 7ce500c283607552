// Package handoff moves completed track buffers from the reading goroutine to
// the encoding goroutine.
package handoff

import (
	"errors"
	"fmt"
	"sync"

	"cddarip/internal/disc"
)

// ErrDuplicate reports a second publication under a key already used.
var ErrDuplicate = errors.New("track already published")

// Item is a completed track's PCM buffer.
type Item struct {
	// Key is the position of the track in the extraction request.
	Key   int
	Track disc.Track
	PCM   []byte
}

// Queue is an unbounded, mutex-guarded map of pending items with a
// level-triggered readiness channel.
type Queue struct {
	mu        sync.Mutex
	pending   map[int]Item
	published map[int]struct{}
	ready     chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{
		pending:   make(map[int]Item),
		published: make(map[int]struct{}),
		ready:     make(chan struct{}, 1),
	}
}

// Publish transfers item into the queue and raises the readiness signal.
func (q *Queue) Publish(item Item) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.published[item.Key]; ok {
		return fmt.Errorf("%w: key %d", ErrDuplicate, item.Key)
	}
	q.published[item.Key] = struct{}{}
	q.pending[item.Key] = item
	q.signal()
	return nil
}

// TakeOldest removes and returns the item with the lowest key. The readiness
// signal stays raised while items remain.
func (q *Queue) TakeOldest() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		q.drain()
		return Item{}, false
	}
	oldest := -1
	for key := range q.pending {
		if oldest < 0 || key < oldest {
			oldest = key
		}
	}
	item := q.pending[oldest]
	delete(q.pending, oldest)
	if len(q.pending) > 0 {
		q.signal()
	} else {
		q.drain()
	}
	return item, true
}

// Ready returns a channel that has a value while the queue is non-empty.
// Receivers must call TakeOldest after waking.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drop discards pending items and returns how many were discarded.
func (q *Queue) Drop() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.pending)
	clear(q.pending)
	q.drain()
	return n
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *Queue) drain() {
	select {
	case <-q.ready:
	default:
	}
}
