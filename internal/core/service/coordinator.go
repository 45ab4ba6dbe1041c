package service

import (
	"sync"

	"gs108e2mqtt/internal/core/domain"
)

// SnapshotListener is notified whenever the coordinator stores a new snapshot.
type SnapshotListener interface {
	OnUpdate(snapshot *domain.MetricsSnapshot)
}

// Coordinator holds the latest metrics snapshot and fans it out to listeners.
// It never interprets the snapshot, it only broadcasts it.
type Coordinator struct {
	mu        sync.Mutex
	current   *domain.MetricsSnapshot
	listeners []SnapshotListener
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Current returns the last stored snapshot, or nil before the first poll.
func (c *Coordinator) Current() *domain.MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Coordinator) Subscribe(listener SnapshotListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}

func (c *Coordinator) Unsubscribe(listener SnapshotListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, l := range c.listeners {
		if l == listener {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// SetCurrent stores the snapshot and synchronously notifies every listener.
// Listeners run on the caller's goroutine, so a poll cycle is fully applied
// before the next one starts.
func (c *Coordinator) SetCurrent(snapshot *domain.MetricsSnapshot) {
	c.mu.Lock()
	c.current = snapshot
	listeners := make([]SnapshotListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l.OnUpdate(snapshot)
	}
}
