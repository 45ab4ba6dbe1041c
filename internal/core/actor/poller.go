package actor

import (
	"fmt"
	"time"

	"gs108e2mqtt/internal/config"
	"gs108e2mqtt/internal/core/domain"
	"gs108e2mqtt/internal/core/events"
	"gs108e2mqtt/internal/core/service"
	. "gs108e2mqtt/internal/util/actorutil"
	"gs108e2mqtt/pkg/gs108e"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// PollerActor drives the poll loop. On boot it fetches the switch identity,
// builds the sensor catalog for the reported port count and attaches the
// entities. Every tick it requests port counters and hands the resulting
// snapshot to the coordinator.
type PollerActor struct {
	ActorWithStates
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	switchActor *actor.PID
	config      *config.Config
	coordinator *service.Coordinator
	eventStream *eventstream.EventStream
	store       service.ValueStore
	registry    *service.EntityRegistry
	info        *gs108e.SwitchInfo

	logger *zap.Logger
}

type pollTick struct {
}

func NewPollerActor(config *config.Config, switchActor *actor.PID, coordinator *service.Coordinator,
	eventStream *eventstream.EventStream, store service.ValueStore, logger *zap.Logger) *PollerActor {
	act := &PollerActor{
		config:      config,
		switchActor: switchActor,
		coordinator: coordinator,
		eventStream: eventStream,
		store:       store,
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_POLLER, logger),
		ActorWithStates: ActorWithStates{
			Behavior: actor.NewBehavior(),
		},
	}
	act.Become(PollerStartingState{
		actor: act,
	})
	return act
}

func (state *PollerActor) Receive(context actor.Context) {
	state.Behavior.Receive(context)
}

// Starting state

type PollerStartingState struct {
	ActorState
	actor *PollerActor
}

func (state PollerStartingState) Name() string {
	return "starting"
}

func (state PollerStartingState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.actor.logger.Debug("poller@starting started")

		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.actor.switchActor, domain.GetSwitchInfoRequest{}, 10*time.Second), func(err error) any {
			return domain.GetSwitchInfoResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.actor.Become(PollerWaitingInfoState{
			actor: state.actor,
		})
	case *actor.Restarting:
	default:
		state.actor.logger.Debug("poller@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

// Waiting info state

type PollerWaitingInfoState struct {
	ActorState
	actor *PollerActor
}

func (state PollerWaitingInfoState) Name() string {
	return "waitingInfo"
}

func (state PollerWaitingInfoState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetSwitchInfoResponse:
		if msg.HasResponseError() {
			// cannot build the catalog without the port count
			state.actor.logger.Error("poller@waitingInfo GetSwitchInfoResponse", zap.Error(msg.GetResponseError()))
			panic(msg.GetResponseError())
		}
		state.actor.logger.Debug("poller@waitingInfo GetSwitchInfoResponse",
			zap.String("model", msg.Info.Model), zap.Int("ports", msg.Info.PortCount))
		state.actor.info = msg.Info

		device := domain.SwitchDevice(msg.Info)
		descriptors := domain.CatalogDescriptors(msg.Info.PortCount)
		state.actor.registry = service.NewEntityRegistry(device, descriptors, state.actor.coordinator,
			state.actor.store, state.actor.eventStream, state.actor.logger)
		state.actor.registry.Attach()

		if state.actor.config.MonitorConfig.PollIntervalMillis > 0 {
			state.actor.scheduler = scheduler.NewTimerScheduler(ctx)
			state.actor.scheduler.RequestOnce(time.Duration(state.actor.config.MonitorConfig.PollIntervalMillis)*time.Millisecond, ctx.Self(), pollTick{})
		}

		state.actor.Become(PollerIdleState{
			actor: state.actor,
		})
		state.actor.stash.UnstashAll(ctx)
	default:
		state.actor.logger.Debug("poller@waitingInfo: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

// Idle state

type PollerIdleState struct {
	ActorState
	actor *PollerActor
}

func (state PollerIdleState) Name() string {
	return "idle"
}

func (state PollerIdleState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.actor.logger.Debug("poller@idle: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: true,
			State:   state.Name(),
		})
	case pollTick:
		state.actor.logger.Debug("poller@idle tick")
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.actor.switchActor, domain.GetPortStatsRequest{}, 10*time.Second), func(err error) any {
			return domain.GetPortStatsResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})

		// schedule next tick
		state.actor.scheduler.RequestOnce(time.Duration(state.actor.config.MonitorConfig.PollIntervalMillis)*time.Millisecond, ctx.Self(), pollTick{})
		state.actor.BecomeStacked(PollerWaitingStatsState{
			actor: state.actor,
		})
	case *actor.Stopping:
		if state.actor.registry != nil {
			state.actor.registry.Detach()
		}
	default:
		state.actor.logger.Debug("poller@idle: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

// Waiting stats state

type PollerWaitingStatsState struct {
	ActorState
	actor *PollerActor
}

func (state PollerWaitingStatsState) Name() string {
	return "waitingStats"
}

func (state PollerWaitingStatsState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetPortStatsResponse:
		if msg.HasResponseError() {
			// skip this cycle, entities keep their last values
			state.actor.logger.Error("poller@waitingStats GetPortStatsResponse error", zap.Error(msg.GetResponseError()))
			state.actor.UnbecomeStacked()
			state.actor.stash.UnstashAll(ctx)
			return
		}
		state.actor.logger.Debug("poller@waitingStats GetPortStatsResponse")

		snapshot := events.PortStatsSnapshot(state.actor.info, msg.Report)
		state.actor.coordinator.SetCurrent(snapshot)

		state.actor.UnbecomeStacked()
		state.actor.stash.UnstashAll(ctx)
	case *actor.Stopping:
		if state.actor.registry != nil {
			state.actor.registry.Detach()
		}
	default:
		state.actor.logger.Debug("poller@waitingStats: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}
