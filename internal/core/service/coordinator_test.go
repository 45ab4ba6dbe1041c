package service

import (
	"testing"
	"time"

	"gs108e2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

type recordingListener struct {
	snapshots []*domain.MetricsSnapshot
}

func (l *recordingListener) OnUpdate(snapshot *domain.MetricsSnapshot) {
	l.snapshots = append(l.snapshots, snapshot)
}

func testSnapshot(values map[string]any) *domain.MetricsSnapshot {
	return &domain.MetricsSnapshot{
		TakenAt: time.Now(),
		Values:  values,
	}
}

func TestCoordinatorCurrentStartsNil(t *testing.T) {
	c := NewCoordinator()
	assert.Nil(t, c.Current())
}

func TestCoordinatorSetCurrentNotifiesListeners(t *testing.T) {

	assert := assert.New(t)

	c := NewCoordinator()
	l := &recordingListener{}
	c.Subscribe(l)

	snap := testSnapshot(map[string]any{"switch_name": "test"})
	c.SetCurrent(snap)

	assert.Equal(snap, c.Current())
	assert.Len(l.snapshots, 1)
	assert.Equal(snap, l.snapshots[0])
}

func TestCoordinatorUnsubscribe(t *testing.T) {

	assert := assert.New(t)

	c := NewCoordinator()
	l1 := &recordingListener{}
	l2 := &recordingListener{}
	c.Subscribe(l1)
	c.Subscribe(l2)

	c.SetCurrent(testSnapshot(nil))
	c.Unsubscribe(l1)
	c.SetCurrent(testSnapshot(nil))

	assert.Len(l1.snapshots, 1)
	assert.Len(l2.snapshots, 2)
}

func TestCoordinatorKeepsLatestSnapshot(t *testing.T) {

	assert := assert.New(t)

	c := NewCoordinator()
	first := testSnapshot(map[string]any{"a": 1.0})
	second := testSnapshot(map[string]any{"a": 2.0})
	c.SetCurrent(first)
	c.SetCurrent(second)

	assert.Equal(second, c.Current())
}
