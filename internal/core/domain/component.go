package domain

import "time"

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

// SensorDescriptor is the static metadata of one measurable quantity.
// Descriptors are immutable; the catalog builds them once at setup.
type SensorDescriptor struct {
	Key               string
	Name              string
	SensorType        string
	UnitOfMeasurement string
	StateClass        string // measurement, total_increasing
	DeviceClass       string // data_size, data_rate, duration
	EntityCategory    string // diagnostic, config, empty for primary
	Icon              string
	// Value maps the raw snapshot value to the entity state.
	// Nil means identity.
	Value func(any) any
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string
	DeviceClass       string
	EntityCategory    string
	EnabledByDefault  *bool
	Icon              string
}

// MetricsSnapshot is one full set of polled readings, replaced wholesale
// each poll cycle. Consumers only read it.
type MetricsSnapshot struct {
	TakenAt time.Time
	Values  map[string]any
}
