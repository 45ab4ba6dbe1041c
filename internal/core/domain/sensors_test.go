package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogDescriptorCount(t *testing.T) {

	assert := assert.New(t)

	deviceCount := len(DeviceSensorDescriptors())

	for _, ports := range []int{0, 1, 8} {
		descriptors := CatalogDescriptors(ports)
		assert.Equal(deviceCount+ports*SensorsPerPort, len(descriptors), fmt.Sprintf("catalog size for %d ports", ports))
	}
}

func TestCatalogKeysAreUnique(t *testing.T) {

	assert := assert.New(t)

	descriptors := CatalogDescriptors(8)
	seen := map[string]bool{}
	for _, d := range descriptors {
		assert.False(seen[d.Key], fmt.Sprintf("duplicate key %s", d.Key))
		seen[d.Key] = true
	}
}

func TestPortSensorDescriptors(t *testing.T) {

	assert := assert.New(t)

	descriptors := PortSensorDescriptors(2)
	assert.Equal(2*SensorsPerPort, len(descriptors))

	rx := descriptors[0]
	assert.Equal("port_1_traffic_rx_mbytes", rx.Key)
	assert.Equal("Port 1 Traffic Received", rx.Name)
	assert.Equal(UNIT_MEGABYTES, rx.UnitOfMeasurement)
	assert.Equal(STATE_CLASS_TOTAL_INCREASING, rx.StateClass)
	assert.Equal(DEVICE_CLASS_DATA_SIZE, rx.DeviceClass)
	assert.Equal("mdi:download", rx.Icon)

	io := descriptors[SensorsPerPort+4]
	assert.Equal("port_2_speed_io_mbytes", io.Key)
	assert.Equal("Port 2 IO", io.Name)
	assert.Equal(UNIT_MEGABYTES_PER_SECOND, io.UnitOfMeasurement)
	assert.Equal(STATE_CLASS_MEASUREMENT, io.StateClass)
	assert.Equal("mdi:swap-vertical", io.Icon)
}

func TestDeviceSensorDescriptorsAreDiagnostic(t *testing.T) {

	assert := assert.New(t)

	for _, d := range DeviceSensorDescriptors() {
		assert.Equal(ENTITY_CLASS_DIAGNOSTIC, d.EntityCategory, d.Key)
		assert.Equal(SENSOR_TYPE_SENSOR, d.SensorType, d.Key)
	}
}

func TestUniqueIDIsStable(t *testing.T) {

	assert := assert.New(t)

	a := UniqueID("gs108e_switch_abc", "port_1_speed_io_mbytes")
	b := UniqueID("gs108e_switch_abc", "port_1_speed_io_mbytes")
	assert.Equal(a, b)
	assert.Equal("uid_gs108e_switch_abc_port_1_speed_io_mbytes", a)

	c := UniqueID("gs108e_switch_def", "port_1_speed_io_mbytes")
	assert.NotEqual(a, c)
}

func TestSwitchSensorsMatchCatalog(t *testing.T) {

	assert := assert.New(t)

	device := Device{Id: "gs108e_switch_test", Name: "test"}
	sensors := SwitchSensors(device, 8)
	descriptors := CatalogDescriptors(8)

	assert.Equal(len(descriptors), len(sensors))
	for i := range sensors {
		assert.Equal(descriptors[i].Key, sensors[i].Id)
		assert.Equal(UniqueID(device.Id, descriptors[i].Key), sensors[i].UniqueId)
	}
}
