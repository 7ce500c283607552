package handoff

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestTakeOldestReturnsLowestKey(t *testing.T) {
	q := NewQueue()
	for _, key := range []int{3, 1, 2} {
		if err := q.Publish(Item{Key: key}); err != nil {
			t.Fatalf("Publish(%d): %v", key, err)
		}
	}
	for want := 1; want <= 3; want++ {
		item, ok := q.TakeOldest()
		if !ok || item.Key != want {
			t.Fatalf("TakeOldest = %d,%v want %d", item.Key, ok, want)
		}
	}
	if _, ok := q.TakeOldest(); ok {
		t.Fatal("expected empty queue")
	}
}

func TestPublishRejectsDuplicateKey(t *testing.T) {
	q := NewQueue()
	if err := q.Publish(Item{Key: 1}); err != nil {
		t.Fatal(err)
	}
	q.TakeOldest()
	if err := q.Publish(Item{Key: 1}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestReadySignalIsLevelTriggered(t *testing.T) {
	q := NewQueue()
	select {
	case <-q.Ready():
		t.Fatal("empty queue must not be ready")
	default:
	}

	q.Publish(Item{Key: 1}) //nolint:errcheck
	q.Publish(Item{Key: 2}) //nolint:errcheck

	for i := 0; i < 2; i++ {
		select {
		case <-q.Ready():
		case <-time.After(time.Second):
			t.Fatalf("expected ready signal before take %d", i+1)
		}
		if _, ok := q.TakeOldest(); !ok {
			t.Fatalf("take %d found nothing", i+1)
		}
	}
	select {
	case <-q.Ready():
		t.Fatal("drained queue must not be ready")
	default:
	}
}

func TestDropClearsPending(t *testing.T) {
	q := NewQueue()
	q.Publish(Item{Key: 1, PCM: make([]byte, 4)}) //nolint:errcheck
	q.Publish(Item{Key: 2, PCM: make([]byte, 4)}) //nolint:errcheck
	if n := q.Drop(); n != 2 {
		t.Fatalf("Drop = %d, want 2", n)
	}
	if q.Len() != 0 {
		t.Fatalf("Len = %d after drop", q.Len())
	}
	select {
	case <-q.Ready():
		t.Fatal("dropped queue must not be ready")
	default:
	}
}

func TestConcurrentPublishAndTake(t *testing.T) {
	q := NewQueue()
	const n = 100
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Publish(Item{Key: i}) //nolint:errcheck
		}
	}()

	got := make([]int, 0, n)
	deadline := time.After(5 * time.Second)
	for len(got) < n {
		select {
		case <-q.Ready():
			for {
				item, ok := q.TakeOldest()
				if !ok {
					break
				}
				got = append(got, item.Key)
			}
		case <-deadline:
			t.Fatalf("timed out with %d items", len(got))
		}
	}
	wg.Wait()
	for i, key := range got {
		if key != i {
			t.Fatalf("item %d has key %d", i, key)
		}
	}
}
