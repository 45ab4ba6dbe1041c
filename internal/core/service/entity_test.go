package service

import (
	"testing"

	"gs108e2mqtt/internal/core/domain"

	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mapStore struct {
	values map[string]any
	saves  int
}

func newMapStore() *mapStore {
	return &mapStore{values: map[string]any{}}
}

func (s *mapStore) Load(uniqueID string) (any, bool, error) {
	v, ok := s.values[uniqueID]
	return v, ok, nil
}

func (s *mapStore) Save(uniqueID string, value any) error {
	s.values[uniqueID] = value
	s.saves++
	return nil
}

func testDevice() domain.Device {
	return domain.Device{Id: "gs108e_switch_test", Name: "test"}
}

func floatDescriptor(key string) domain.SensorDescriptor {
	return domain.SensorDescriptor{
		Key:        key,
		Name:       key,
		SensorType: domain.SENSOR_TYPE_SENSOR,
	}
}

func collectEvents(es *eventstream.EventStream) *[]any {
	var events []any
	es.Subscribe(func(value any) {
		events = append(events, value)
	})
	return &events
}

func TestEntityValueFromSnapshot(t *testing.T) {

	assert := assert.New(t)

	coordinator := NewCoordinator()
	es := &eventstream.EventStream{}
	events := collectEvents(es)

	entity := NewSensorEntity(testDevice(), floatDescriptor("port_1_speed_io_mbytes"), coordinator, nil, es, zap.NewNop())
	entity.Attach()
	assert.Nil(entity.Value())

	coordinator.SetCurrent(testSnapshot(map[string]any{"port_1_speed_io_mbytes": 1.25}))

	assert.Equal(1.25, entity.Value())
	assert.Len(*events, 1)
	ev, ok := (*events)[0].(domain.FloatSensorUpdateEvent)
	assert.True(ok)
	assert.Equal("port_1_speed_io_mbytes", ev.SensorId())
	assert.Equal(1.25, ev.Value)
}

func TestEntityExtraction(t *testing.T) {

	assert := assert.New(t)

	coordinator := NewCoordinator()
	descriptor := floatDescriptor("port_1_traffic_rx_mbytes")
	descriptor.Value = func(raw any) any {
		return raw.(float64) * 2
	}

	entity := NewSensorEntity(testDevice(), descriptor, coordinator, nil, nil, zap.NewNop())
	entity.Attach()

	coordinator.SetCurrent(testSnapshot(map[string]any{"port_1_traffic_rx_mbytes": 3.0}))

	assert.Equal(6.0, entity.Value())
}

func TestEntityMissingKeyClearsValue(t *testing.T) {

	assert := assert.New(t)

	coordinator := NewCoordinator()
	es := &eventstream.EventStream{}
	events := collectEvents(es)

	entity := NewSensorEntity(testDevice(), floatDescriptor("switch_name"), coordinator, nil, es, zap.NewNop())
	entity.Attach()

	coordinator.SetCurrent(testSnapshot(map[string]any{"switch_name": "GS108Ev3"}))
	assert.Equal("GS108Ev3", entity.Value())

	coordinator.SetCurrent(testSnapshot(map[string]any{"other_key": 1.0}))
	assert.Nil(entity.Value())

	assert.Len(*events, 2)
	cleared, ok := (*events)[1].(domain.TextSensorUpdateEvent)
	assert.True(ok)
	assert.Equal("", cleared.Value)
}

func TestEntityIgnoresNilSnapshot(t *testing.T) {

	assert := assert.New(t)

	coordinator := NewCoordinator()
	entity := NewSensorEntity(testDevice(), floatDescriptor("switch_name"), coordinator, nil, nil, zap.NewNop())
	entity.Attach()

	coordinator.SetCurrent(testSnapshot(map[string]any{"switch_name": "GS108Ev3"}))
	entity.OnUpdate(nil)

	assert.Equal("GS108Ev3", entity.Value())
}

func TestEntityRestoresFromStore(t *testing.T) {

	assert := assert.New(t)

	coordinator := NewCoordinator()
	store := newMapStore()
	entity := NewSensorEntity(testDevice(), floatDescriptor("port_1_speed_io_mbytes"), coordinator, store, nil, zap.NewNop())
	store.values[entity.UniqueID()] = 9.5

	entity.Attach()

	assert.Equal(9.5, entity.Value())
}

func TestEntityRestoreNeverOverwritesLiveValue(t *testing.T) {

	assert := assert.New(t)

	coordinator := NewCoordinator()
	store := newMapStore()
	coordinator.SetCurrent(testSnapshot(map[string]any{"port_1_speed_io_mbytes": 2.0}))

	entity := NewSensorEntity(testDevice(), floatDescriptor("port_1_speed_io_mbytes"), coordinator, store, nil, zap.NewNop())
	store.values[entity.UniqueID()] = 9.5

	entity.Attach()

	assert.Equal(2.0, entity.Value())
}

func TestEntityPersistsOnUpdate(t *testing.T) {

	assert := assert.New(t)

	coordinator := NewCoordinator()
	store := newMapStore()
	entity := NewSensorEntity(testDevice(), floatDescriptor("port_1_speed_io_mbytes"), coordinator, store, nil, zap.NewNop())
	entity.Attach()

	coordinator.SetCurrent(testSnapshot(map[string]any{"port_1_speed_io_mbytes": 4.5}))

	assert.Equal(1, store.saves)
	assert.Equal(4.5, store.values[entity.UniqueID()])
}

func TestRegistryBuildsEveryEntity(t *testing.T) {

	assert := assert.New(t)

	coordinator := NewCoordinator()
	descriptors := domain.CatalogDescriptors(8)
	registry := NewEntityRegistry(testDevice(), descriptors, coordinator, nil, nil, zap.NewNop())
	registry.Attach()

	assert.Len(registry.Entities(), len(descriptors))
	assert.NotNil(registry.Entity("port_8_speed_io_mbytes"))
	assert.Nil(registry.Entity("port_9_speed_io_mbytes"))

	coordinator.SetCurrent(testSnapshot(map[string]any{"port_8_speed_io_mbytes": 7.0}))
	assert.Equal(7.0, registry.Entity("port_8_speed_io_mbytes").Value())

	registry.Detach()
	coordinator.SetCurrent(testSnapshot(map[string]any{"port_8_speed_io_mbytes": 8.0}))
	assert.Equal(7.0, registry.Entity("port_8_speed_io_mbytes").Value())
}
