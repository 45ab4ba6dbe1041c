package domain

import "gs108e2mqtt/pkg/gs108e"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_SWITCH       = "switch"
	ACTOR_ID_POLLER       = "poller"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetSwitchInfoRequest struct {
	ActorRequestMixIn
}

type GetSwitchInfoResponse struct {
	ActorResponseMixIn
	Info *gs108e.SwitchInfo
}

type GetPortStatsRequest struct {
	ActorRequestMixIn
}

type GetPortStatsResponse struct {
	ActorResponseMixIn
	Report *gs108e.PortStatsReport
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
