package handlers

import (
	"sync"
	"time"
)

const (
	chatQueueSize = 16
	chatIdleTTL   = 5 * time.Minute
)

// chatDispatcher serializes update processing per chat. Events from one
// chat run strictly in arrival order; distinct chats run concurrently.
type chatDispatcher struct {
	mu      sync.Mutex
	queues  map[int64]chan func()
	idleTTL time.Duration
}

func newChatDispatcher() *chatDispatcher {
	return &chatDispatcher{
		queues:  make(map[int64]chan func()),
		idleTTL: chatIdleTTL,
	}
}

// Enqueue hands fn to the chat's worker, starting one if none is running.
// Returns false when the chat's queue is full and the event was dropped.
// The send happens under the lock, so it cannot interleave with the
// worker's delete-and-exit in drain: a successfully queued event always
// has a live worker.
func (d *chatDispatcher) Enqueue(chatID int64, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[chatID]
	if !ok {
		q = make(chan func(), chatQueueSize)
		d.queues[chatID] = q
		go d.drain(chatID, q)
	}

	select {
	case q <- fn:
		return true
	default:
		return false
	}
}

// drain runs the chat's events in order and retires the worker after a
// quiet period.
func (d *chatDispatcher) drain(chatID int64, q chan func()) {
	idle := time.NewTimer(d.idleTTL)
	defer idle.Stop()

	for {
		select {
		case fn := <-q:
			fn()
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(d.idleTTL)
		case <-idle.C:
			d.mu.Lock()
			// A racing Enqueue may have queued work after the timer fired.
			if len(q) == 0 {
				delete(d.queues, chatID)
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
			idle.Reset(d.idleTTL)
		}
	}
}
