package service

import (
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"

	"gs108e2mqtt/internal/core/domain"
)

// ValueStore persists last known entity values so they survive restarts.
type ValueStore interface {
	Load(uniqueID string) (any, bool, error)
	Save(uniqueID string, value any) error
}

// SensorEntity is one published sensor. It caches the last extracted value
// and refreshes itself from coordinator snapshots.
type SensorEntity struct {
	device      domain.Device
	descriptor  domain.SensorDescriptor
	coordinator *Coordinator
	store       ValueStore
	eventStream *eventstream.EventStream
	logger      *zap.Logger

	value any
}

func NewSensorEntity(device domain.Device, descriptor domain.SensorDescriptor,
	coordinator *Coordinator, store ValueStore,
	eventStream *eventstream.EventStream, logger *zap.Logger) *SensorEntity {

	e := &SensorEntity{
		device:      device,
		descriptor:  descriptor,
		coordinator: coordinator,
		store:       store,
		eventStream: eventStream,
		logger:      logger.With(zap.String("sensor", descriptor.Key)),
	}
	if snapshot := coordinator.Current(); snapshot != nil {
		if raw, ok := snapshot.Values[descriptor.Key]; ok {
			e.value = e.extract(raw)
		}
	}
	return e
}

func (e *SensorEntity) UniqueID() string {
	return domain.UniqueID(e.device.Id, e.descriptor.Key)
}

func (e *SensorEntity) Descriptor() domain.SensorDescriptor {
	return e.descriptor
}

// Value returns the cached value. Nil means unknown.
func (e *SensorEntity) Value() any {
	return e.value
}

// Attach restores the persisted value when no live snapshot exists yet,
// then subscribes the entity to coordinator updates. A restored value never
// overwrites one computed from a live snapshot.
func (e *SensorEntity) Attach() {
	if e.store != nil && e.coordinator.Current() == nil && e.value == nil {
		stored, ok, err := e.store.Load(e.UniqueID())
		if err != nil {
			e.logger.Warn("could not restore value", zap.Error(err))
		} else if ok {
			e.value = stored
			e.publish(stored)
		}
	}
	e.coordinator.Subscribe(e)
}

func (e *SensorEntity) Detach() {
	e.coordinator.Unsubscribe(e)
}

// OnUpdate refreshes the cached value from a snapshot. A nil snapshot is
// ignored. A snapshot without this entity's key clears the value to unknown.
func (e *SensorEntity) OnUpdate(snapshot *domain.MetricsSnapshot) {
	if snapshot == nil {
		return
	}
	raw, ok := snapshot.Values[e.descriptor.Key]
	if !ok {
		e.logger.Debug("key missing from snapshot, clearing value")
		e.value = nil
		e.publish(nil)
		return
	}
	e.value = e.extract(raw)
	e.publish(e.value)
	if e.store != nil {
		if err := e.store.Save(e.UniqueID(), e.value); err != nil {
			e.logger.Warn("could not persist value", zap.Error(err))
		}
	}
}

func (e *SensorEntity) extract(raw any) any {
	if e.descriptor.Value != nil {
		return e.descriptor.Value(raw)
	}
	return raw
}

func (e *SensorEntity) publish(value any) {
	if e.eventStream == nil {
		return
	}
	mixIn := domain.SensorUpdateEventMixIn{Id: e.descriptor.Key}
	switch v := value.(type) {
	case nil:
		e.eventStream.Publish(domain.TextSensorUpdateEvent{SensorUpdateEventMixIn: mixIn, Value: ""})
	case float64:
		e.eventStream.Publish(domain.FloatSensorUpdateEvent{SensorUpdateEventMixIn: mixIn, Value: v, Decimals: 2})
	case bool:
		e.eventStream.Publish(domain.BinarySensorUpdateEvent{SensorUpdateEventMixIn: mixIn, Value: v})
	case string:
		e.eventStream.Publish(domain.TextSensorUpdateEvent{SensorUpdateEventMixIn: mixIn, Value: v})
	}
}

// ensure interface compliance
var _ SnapshotListener = (*SensorEntity)(nil)
