package service

import (
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"

	"gs108e2mqtt/internal/core/domain"
)

// EntityRegistry owns every sensor entity built from the catalog for one
// switch. Entities are created once at setup and attached as a group.
type EntityRegistry struct {
	device   domain.Device
	entities []*SensorEntity
	byKey    map[string]*SensorEntity
}

func NewEntityRegistry(device domain.Device, descriptors []domain.SensorDescriptor,
	coordinator *Coordinator, store ValueStore,
	eventStream *eventstream.EventStream, logger *zap.Logger) *EntityRegistry {

	r := &EntityRegistry{
		device: device,
		byKey:  make(map[string]*SensorEntity, len(descriptors)),
	}
	for _, d := range descriptors {
		entity := NewSensorEntity(device, d, coordinator, store, eventStream, logger)
		r.entities = append(r.entities, entity)
		r.byKey[d.Key] = entity
	}
	return r
}

func (r *EntityRegistry) Attach() {
	for _, e := range r.entities {
		e.Attach()
	}
}

func (r *EntityRegistry) Detach() {
	for _, e := range r.entities {
		e.Detach()
	}
}

func (r *EntityRegistry) Entity(key string) *SensorEntity {
	return r.byKey[key]
}

func (r *EntityRegistry) Entities() []*SensorEntity {
	return r.entities
}

// Sensors returns the discovery representation of every entity.
func (r *EntityRegistry) Sensors() []domain.GenericSensor {
	var sensors []domain.GenericSensor
	for _, e := range r.entities {
		sensors = append(sensors, domain.DescriptorSensor(r.device, e.Descriptor()))
	}
	return sensors
}
