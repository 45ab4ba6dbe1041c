package actor

import (
	"fmt"
	"time"

	"gs108e2mqtt/internal/core/domain"
	"gs108e2mqtt/internal/util/actorutil"
	"gs108e2mqtt/pkg/gs108e"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/logger"
	"go.uber.org/zap"
)

const (
	SWITCH_ACTOR_ID = "switch"
)

// SwitchActor serializes access to the switch web interface. Requests are
// answered one at a time, anything arriving mid-request is stashed.
type SwitchActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	reader   gs108e.SwitchReader
	logger   *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewSwitchActor(reader gs108e.SwitchReader, logger *zap.Logger) *SwitchActor {
	act := &SwitchActor{
		reader:   reader,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger("switch", logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *SwitchActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *SwitchActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("switch@starting started")
		if err := state.reader.Open(); err != nil {
			panic(err)
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.reader.Close()
	default:
		state.logger.Debug("switch@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *SwitchActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("switch@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      SWITCH_ACTOR_ID,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetSwitchInfoRequest:
		state.logger.Debug("switch@default: GetSwitchInfoRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.getSwitchInfo),
			mapTaskResult[domain.GetSwitchInfoResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetSwitchInfoResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(5 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingSwitch)
	case domain.GetPortStatsRequest:
		state.logger.Debug("switch@default: GetPortStatsRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.getPortStats),
			mapTaskResult[domain.GetPortStatsResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetPortStatsResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(5 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingSwitch)
	case *actor.Stopping:
		state.reader.Close()
	default:
		state.logger.Debug("switch@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *SwitchActor) WaitingSwitch(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("switch@WaitingSwitch backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.reader.Close()
	default:
		state.logger.Debug("switch@WaitingSwitch stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *SwitchActor) getSwitchInfo() (*domain.GetSwitchInfoResponse, error) {
	info, err := a.reader.GetInfo()
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.GetSwitchInfoResponse{
		Info: info,
	}, nil
}

func (a *SwitchActor) getPortStats() (*domain.GetPortStatsResponse, error) {
	report, err := a.reader.GetPortStats()
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.GetPortStatsResponse{
		Report: report,
	}, nil
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
