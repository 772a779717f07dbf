// Package broadcast fans one formatted message out to every current
// subscriber. One bad recipient never blocks the rest; failures are
// counted and logged, not retried.
package broadcast

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/uthkarsh2006/contestbot/internal/domain"
)

// Gateway is the minimal outbound surface the engine needs.
// telegram.BotGateway implements it.
type Gateway interface {
	SendMessage(chatID int64, text string) error
}

// Subscribers is the read side of the subscriber store.
type Subscribers interface {
	ListAll(ctx context.Context) ([]domain.Subscriber, error)
}

// Result reports one broadcast's outcome. Failed sends are reported
// only, never re-queued.
type Result struct {
	Sent   int
	Failed int
}

// Engine sends sequentially through a rate limiter so a large
// subscriber set does not trip the gateway's flood limits.
type Engine struct {
	subs Subscribers
	gw   Gateway
	log  *zap.Logger
	lim  *rate.Limiter
}

// NewEngine creates an engine pacing sends at perSecond messages per
// second (defaults to 4 when non-positive).
func NewEngine(subs Subscribers, gw Gateway, log *zap.Logger, perSecond float64) *Engine {
	if perSecond <= 0 {
		perSecond = 4
	}
	return &Engine{
		subs: subs,
		gw:   gw,
		log:  log,
		lim:  rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// SendToAll delivers text to a snapshot of the subscriber set.
// Subscribers registered after the snapshot is taken are excluded from
// this broadcast. A store read failure skips the broadcast entirely.
func (e *Engine) SendToAll(ctx context.Context, text string) Result {
	subs, err := e.subs.ListAll(ctx)
	if err != nil {
		e.log.Error("subscriber snapshot failed, broadcast skipped", zap.Error(err))
		return Result{}
	}

	var res Result
	for _, s := range subs {
		if err := e.lim.Wait(ctx); err != nil {
			// Shutdown mid-broadcast; report what got out.
			e.log.Warn("broadcast interrupted",
				zap.Int("sent", res.Sent), zap.Int("failed", res.Failed), zap.Error(err))
			return res
		}
		if err := e.gw.SendMessage(s.ChatID, text); err != nil {
			res.Failed++
			e.log.Warn("send failed",
				zap.Int64("chat_id", s.ChatID), zap.Error(err))
			continue
		}
		res.Sent++
	}

	if res.Failed > 0 {
		e.log.Warn("broadcast finished with failures",
			zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
	} else {
		e.log.Info("broadcast finished", zap.Int("sent", res.Sent))
	}
	return res
}
