package mqtt

import (
	"testing"

	"gs108e2mqtt/internal/core/domain"
	"gs108e2mqtt/internal/util"

	"github.com/stretchr/testify/assert"
)

func testClient() *MQTTClient {
	cfg := util.LoadTestConfig()
	cfg.MQTT.BaseTopic = "gs108e"
	return CreateMQTTClient(&cfg, OptsFromConfig(&cfg), nil, nil)
}

func TestStateTopics(t *testing.T) {

	assert := assert.New(t)

	client := testClient()

	assert.Equal("gs108e/bridge/state", client.BridgeStateTopic())
	assert.Equal("gs108e/sensor/port_1_speed_io_mbytes/state", client.SensorStateTopic("port_1_speed_io_mbytes"))
	assert.Equal("gs108e/binary_sensor/bridge/state", client.BinarySensorStateTopic("bridge"))
}

func TestHADiscoverySensorTopic(t *testing.T) {

	assert := assert.New(t)

	sensor := domain.GenericSensor{
		Device:     domain.Device{Id: "gs108e_switch_abc"},
		Id:         "port_1_traffic_rx_mbytes",
		SensorType: domain.SENSOR_TYPE_SENSOR,
	}
	assert.Equal("homeassistant/sensor/gs108e_switch_abc/port_1_traffic_rx_mbytes/config", HADiscoverySensorTopic(sensor))
}

func TestGenericSensorToHADiscoveryMessage(t *testing.T) {

	assert := assert.New(t)

	client := testClient()

	device := domain.Device{
		Id:           "gs108e_switch_abc",
		Name:         "GS108Ev3",
		Manufacturer: "Netgear",
		Model:        "GS108Ev3",
	}
	sensor := domain.DescriptorSensor(device, domain.PortSensorDescriptors(1)[0])

	msg := GenericSensorToHADiscoveryMessage(client, sensor)

	assert.Equal("gs108e/sensor/port_1_traffic_rx_mbytes/state", msg.StateTopic)
	assert.Equal("gs108e/bridge/state", msg.AvTopic)
	assert.Equal("Port 1 Traffic Received", msg.Name)
	assert.Equal("uid_gs108e_switch_abc_port_1_traffic_rx_mbytes", msg.UniqueId)
	assert.Equal("MB", msg.UnitOfMeasurement)
	assert.Equal("total_increasing", msg.StateClass)
	assert.Equal("data_size", msg.DeviceClass)
	assert.Equal("mqtt", msg.Platform)
	assert.Equal([]string{"gs108e_switch_abc"}, msg.Device.Id)
}

func TestBridgeSensorDiscoveryMessage(t *testing.T) {

	assert := assert.New(t)

	client := testClient()

	bridge := domain.BridgeDevice("gs108e")
	sensor := domain.BridgeSensors(bridge)[0]

	msg := GenericSensorToHADiscoveryMessage(client, sensor)

	assert.Equal(client.BridgeStateTopic(), msg.StateTopic)
	assert.Equal(MQTT_PAYLOAD_ONLINE, msg.PayloadOn)
	assert.Equal(MQTT_PAYLOAD_OFFLINE, msg.PayloadOff)
	assert.Equal("connectivity", msg.DeviceClass)
}
