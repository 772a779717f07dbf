// Package cycle orchestrates one end-to-end daily run: fetch today's
// contests, broadcast the daily digest to everyone, and arm the
// per-contest reminders.
package cycle

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uthkarsh2006/contestbot/internal/broadcast"
	"github.com/uthkarsh2006/contestbot/internal/domain"
	"github.com/uthkarsh2006/contestbot/internal/format"
	"github.com/uthkarsh2006/contestbot/internal/scheduler"
)

// ContestSource is the read side of the contest feed.
type ContestSource interface {
	TodayContests(now time.Time) []domain.Contest
}

// Broadcaster fans one message out to every current subscriber.
type Broadcaster interface {
	SendToAll(ctx context.Context, text string) broadcast.Result
}

// Driver runs the daily cycle. Runs are serialized: if a cycle is
// still in flight when the next trigger fires, the second waits
// instead of double-arming reminders.
type Driver struct {
	mu     sync.Mutex
	feed   ContestSource
	engine Broadcaster
	sched  *scheduler.Scheduler
	log    *zap.Logger
}

// NewDriver wires the cycle's collaborators together.
func NewDriver(feed ContestSource, engine Broadcaster, sched *scheduler.Scheduler, log *zap.Logger) *Driver {
	return &Driver{feed: feed, engine: engine, sched: sched, log: log}
}

// Run executes one cycle against the clock value now.
func (d *Driver) Run(ctx context.Context, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	contests := d.feed.TodayContests(now)
	d.log.Info("daily cycle starting",
		zap.String("date", domain.DateString(now)),
		zap.Int("contests", len(contests)),
	)

	res := d.engine.SendToAll(ctx, format.Daily(contests))
	d.log.Info("daily broadcast done",
		zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))

	armed := d.armReminders(contests, now)
	d.log.Info("reminders armed", zap.Int("armed", armed))
}

// armReminders schedules one reminder per contest at start − 15min.
// A malformed start time or an already-passed fire time skips only
// that contest.
func (d *Driver) armReminders(contests []domain.Contest, now time.Time) int {
	armed := 0
	for _, c := range contests {
		c := c
		fireAt, err := domain.ReminderAt(c, now)
		if err != nil {
			d.log.Warn("unparseable start time, reminder skipped",
				zap.String("contest", c.Name), zap.Error(err))
			continue
		}
		if !fireAt.After(now) {
			d.log.Debug("reminder window already passed",
				zap.String("contest", c.Name), zap.Time("fire_at", fireAt))
			continue
		}
		d.sched.At(fireAt, "reminder:"+c.Name, func(ctx context.Context) {
			d.engine.SendToAll(ctx, format.Reminder(c))
		})
		armed++
	}
	return armed
}

// Start runs the startup cycle (covers restarts mid-day) and arms the
// self-rescheduling daily trigger.
func (d *Driver) Start(ctx context.Context, dailyHour int) {
	d.Run(ctx, time.Now())
	d.armDaily(dailyHour)
}

func (d *Driver) armDaily(hour int) {
	next := scheduler.NextDaily(time.Now(), hour)
	d.sched.At(next, "daily-cycle", func(ctx context.Context) {
		d.Run(ctx, time.Now())
		d.armDaily(hour)
	})
	d.log.Info("next daily cycle scheduled", zap.Time("at", next))
}
