package actor

import (
	"sync"
	"testing"
	"time"

	adactor "gs108e2mqtt/internal/adapter/actor"
	"gs108e2mqtt/internal/core/domain"
	"gs108e2mqtt/internal/core/service"
	"gs108e2mqtt/internal/util"
	"gs108e2mqtt/internal/util/actorutil"
	"gs108e2mqtt/pkg/gs108e"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPollerActorPublishesSnapshots(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	cfg.MonitorConfig.PollIntervalMillis = 1000

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	switchProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewSwitchActor(&gs108e.TestSwitchReader{}, logger)
	})
	switchPID := context.Spawn(switchProps)

	coordinator := service.NewCoordinator()
	es := &eventstream.EventStream{}

	var mu sync.Mutex
	var events []any
	es.Subscribe(func(value any) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, value)
	})

	pollerProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollerActor(&cfg, switchPID, coordinator, es, nil, logger)
	})
	pollerPID := context.Spawn(pollerProps)

	// wait for boot plus at least one poll cycle
	time.Sleep(2500 * time.Millisecond)

	snapshot := coordinator.Current()
	assert.NotNil(snapshot, "coordinator received a snapshot")
	assert.Contains(snapshot.Values, "switch_name")
	assert.Contains(snapshot.Values, "port_8_speed_io_mbytes")

	mu.Lock()
	gotFloat := false
	for _, ev := range events {
		if _, ok := ev.(domain.FloatSensorUpdateEvent); ok {
			gotFloat = true
			break
		}
	}
	mu.Unlock()
	assert.True(gotFloat, "entities published update events")

	result, err := context.RequestFuture(pollerPID, domain.ActorHealthRequest{}, 5*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.ActorHealthResponse)
	assert.True(resp.Healthy, "poller healthy")
	assert.Equal("idle", resp.State)

	context.Stop(pollerPID)
	context.Stop(switchPID)

	as.Shutdown()
}
