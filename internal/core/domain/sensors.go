package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"gs108e2mqtt/pkg/gs108e"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE         = "bridge"
	SENSOR_ID_SWITCH_IP            = "switch_ip"
	SENSOR_ID_SWITCH_NAME          = "switch_name"
	SENSOR_ID_SWITCH_BOOTLOADER    = "switch_bootloader"
	SENSOR_ID_SWITCH_FIRMWARE      = "switch_firmware"
	SENSOR_ID_SWITCH_SERIAL_NUMBER = "switch_serial_number"
	SENSOR_ID_RESPONSE_TIME        = "response_time_s"

	STATE_CLASS_MEASUREMENT      = "measurement"
	STATE_CLASS_TOTAL_INCREASING = "total_increasing"
	DEVICE_CLASS_DATA_SIZE       = "data_size"
	DEVICE_CLASS_DATA_RATE       = "data_rate"
	DEVICE_CLASS_DURATION        = "duration"
	DEVICE_CLASS_CONNECTIVITY    = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC      = "diagnostic"
	ENTITY_CLASS_CONFIG          = "config"
	SENSOR_TYPE_SENSOR           = "sensor"
	SENSOR_TYPE_BINARY           = "binary_sensor"

	UNIT_MEGABYTES            = "MB"
	UNIT_MEGABYTES_PER_SECOND = "MB/s"
	UNIT_SECONDS              = "s"
)

// SensorsPerPort is the number of descriptors the catalog emits per port.
const SensorsPerPort = 5

type portSensorTemplate struct {
	keyFormat   string
	nameFormat  string
	unit        string
	deviceClass string
	stateClass  string
	icon        string
}

var portSensorTemplates = []portSensorTemplate{
	{"port_%d_traffic_rx_mbytes", "Port %d Traffic Received", UNIT_MEGABYTES, DEVICE_CLASS_DATA_SIZE, STATE_CLASS_TOTAL_INCREASING, "mdi:download"},
	{"port_%d_traffic_tx_mbytes", "Port %d Traffic Transferred", UNIT_MEGABYTES, DEVICE_CLASS_DATA_SIZE, STATE_CLASS_TOTAL_INCREASING, "mdi:upload"},
	{"port_%d_speed_rx_mbytes", "Port %d Receiving", UNIT_MEGABYTES_PER_SECOND, DEVICE_CLASS_DATA_RATE, STATE_CLASS_MEASUREMENT, "mdi:download"},
	{"port_%d_speed_tx_mbytes", "Port %d Transferring", UNIT_MEGABYTES_PER_SECOND, DEVICE_CLASS_DATA_RATE, STATE_CLASS_MEASUREMENT, "mdi:upload"},
	{"port_%d_speed_io_mbytes", "Port %d IO", UNIT_MEGABYTES_PER_SECOND, DEVICE_CLASS_DATA_RATE, STATE_CLASS_MEASUREMENT, "mdi:swap-vertical"},
}

// DeviceSensorDescriptors returns the fixed device-level diagnostic sensors.
func DeviceSensorDescriptors() []SensorDescriptor {
	return []SensorDescriptor{
		{
			Key:            SENSOR_ID_SWITCH_IP,
			Name:           "IP Address",
			SensorType:     SENSOR_TYPE_SENSOR,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:switch",
		},
		{
			Key:            SENSOR_ID_SWITCH_NAME,
			Name:           "Switch Name",
			SensorType:     SENSOR_TYPE_SENSOR,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:text",
		},
		{
			Key:            SENSOR_ID_SWITCH_BOOTLOADER,
			Name:           "Switch Bootloader",
			SensorType:     SENSOR_TYPE_SENSOR,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:text",
		},
		{
			Key:            SENSOR_ID_SWITCH_FIRMWARE,
			Name:           "Switch Firmware",
			SensorType:     SENSOR_TYPE_SENSOR,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:text",
		},
		{
			Key:            SENSOR_ID_SWITCH_SERIAL_NUMBER,
			Name:           "Switch Serial Number",
			SensorType:     SENSOR_TYPE_SENSOR,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:text",
		},
		{
			Key:               SENSOR_ID_RESPONSE_TIME,
			Name:              "Response Time (seconds)",
			SensorType:        SENSOR_TYPE_SENSOR,
			UnitOfMeasurement: UNIT_SECONDS,
			DeviceClass:       DEVICE_CLASS_DURATION,
			EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
			Icon:              "mdi:clock",
		},
	}
}

// PortSensorDescriptors expands the per-port template for ports 1..portCount.
func PortSensorDescriptors(portCount int) []SensorDescriptor {
	var descriptors []SensorDescriptor
	for port := 1; port <= portCount; port++ {
		for _, tpl := range portSensorTemplates {
			descriptors = append(descriptors, SensorDescriptor{
				Key:               fmt.Sprintf(tpl.keyFormat, port),
				Name:              fmt.Sprintf(tpl.nameFormat, port),
				SensorType:        SENSOR_TYPE_SENSOR,
				UnitOfMeasurement: tpl.unit,
				StateClass:        tpl.stateClass,
				DeviceClass:       tpl.deviceClass,
				Icon:              tpl.icon,
			})
		}
	}
	return descriptors
}

// CatalogDescriptors is the deterministic ordered list of every sensor to
// instantiate for a switch with the given port count.
func CatalogDescriptors(portCount int) []SensorDescriptor {
	return append(DeviceSensorDescriptors(), PortSensorDescriptors(portCount)...)
}

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("gs108e_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "Netgear",
		Model:        "GS108E Bridge",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("GS108E Bridge %s", md5HashShort(baseTopic)),
	}
}

func SwitchDevice(info *gs108e.SwitchInfo) Device {
	return Device{
		Id:           fmt.Sprintf("gs108e_switch_%s", md5HashShort(info.Serial)),
		Version:      info.Firmware,
		Manufacturer: "Netgear",
		Model:        info.Model,
		Name:         info.Name,
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

// DescriptorSensor binds a catalog descriptor to a device for discovery.
func DescriptorSensor(device Device, d SensorDescriptor) GenericSensor {
	return GenericSensor{
		Device:            device,
		Id:                d.Key,
		SensorType:        d.SensorType,
		Name:              d.Name,
		UnitOfMeasurement: d.UnitOfMeasurement,
		StateClass:        d.StateClass,
		DeviceClass:       d.DeviceClass,
		EntityCategory:    d.EntityCategory,
		Icon:              d.Icon,
		UniqueId:          UniqueID(device.Id, d.Key),
	}
}

func SwitchSensors(device Device, portCount int) []GenericSensor {
	var sensors []GenericSensor
	for _, d := range CatalogDescriptors(portCount) {
		sensors = append(sensors, DescriptorSensor(device, d))
	}
	return sensors
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{
		{
			Device:         bridgeDevice,
			Id:             SENSOR_ID_BRIDGE_STATE,
			SensorType:     SENSOR_TYPE_BINARY,
			Name:           "Connection state",
			DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			UniqueId:       UniqueID(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
		},
	}
}

// UniqueID is deterministic so that entity identities survive restarts.
func UniqueID(deviceId, key string) string {
	return fmt.Sprintf("uid_%s_%s", deviceId, key)
}

func md5HashShort(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])[0:8]
}
