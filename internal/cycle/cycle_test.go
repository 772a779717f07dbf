package cycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uthkarsh2006/contestbot/internal/broadcast"
	"github.com/uthkarsh2006/contestbot/internal/domain"
	"github.com/uthkarsh2006/contestbot/internal/scheduler"
)

type fakeFeed struct {
	contests []domain.Contest
}

func (f *fakeFeed) TodayContests(time.Time) []domain.Contest { return f.contests }

type recordingEngine struct {
	mu    sync.Mutex
	texts []string
}

func (e *recordingEngine) SendToAll(_ context.Context, text string) broadcast.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.texts = append(e.texts, text)
	return broadcast.Result{Sent: 1}
}

func (e *recordingEngine) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.texts...)
}

func at(t *testing.T, hh, mm int) time.Time {
	t.Helper()
	return time.Date(2025, time.July, 14, hh, mm, 0, 0, time.Local)
}

func TestRun_BroadcastsDailyAndArmsReminder(t *testing.T) {
	feed := &fakeFeed{contests: []domain.Contest{
		{Name: "Cup", Date: "14-07-2025", StartTime: "10:00", EndTime: "12:00", Platform: "CF"},
	}}
	engine := &recordingEngine{}
	sched := scheduler.New(zap.NewNop()) // not running: armed entries stay put
	d := NewDriver(feed, engine, sched, zap.NewNop())

	d.Run(context.Background(), at(t, 9, 0))

	texts := engine.all()
	require.Len(t, texts, 1)
	require.Contains(t, texts[0], "Cup")
	require.Equal(t, 1, sched.Len(), "exactly one reminder armed")
}

func TestRun_PastDueReminderNotArmed(t *testing.T) {
	feed := &fakeFeed{contests: []domain.Contest{
		{Name: "Cup", Date: "14-07-2025", StartTime: "10:00"},
	}}
	engine := &recordingEngine{}
	sched := scheduler.New(zap.NewNop())
	d := NewDriver(feed, engine, sched, zap.NewNop())

	// 09:50 is past the 09:45 fire time; the reminder must never fire
	// retroactively.
	d.Run(context.Background(), at(t, 9, 50))
	require.Zero(t, sched.Len())
}

func TestRun_MalformedStartTimeSkipsOnlyThatContest(t *testing.T) {
	feed := &fakeFeed{contests: []domain.Contest{
		{Name: "Broken", Date: "14-07-2025", StartTime: "soon-ish"},
		{Name: "Cup", Date: "14-07-2025", StartTime: "10:00"},
	}}
	engine := &recordingEngine{}
	sched := scheduler.New(zap.NewNop())
	d := NewDriver(feed, engine, sched, zap.NewNop())

	d.Run(context.Background(), at(t, 9, 0))
	require.Equal(t, 1, sched.Len())
}

func TestRun_EmptyFeedStillBroadcasts(t *testing.T) {
	engine := &recordingEngine{}
	sched := scheduler.New(zap.NewNop())
	d := NewDriver(&fakeFeed{}, engine, sched, zap.NewNop())

	d.Run(context.Background(), at(t, 9, 0))

	texts := engine.all()
	require.Len(t, texts, 1)
	require.Contains(t, texts[0], "No contests today")
	require.Zero(t, sched.Len())
}

// memStore and captureGateway drive the full pipeline end to end with
// a real broadcast engine and a running scheduler.

type memStore struct {
	subs []domain.Subscriber
}

func (m *memStore) ListAll(context.Context) ([]domain.Subscriber, error) {
	return append([]domain.Subscriber(nil), m.subs...), nil
}

type captureGateway struct {
	mu    sync.Mutex
	sends map[int64][]string
}

func (g *captureGateway) SendMessage(chatID int64, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sends == nil {
		g.sends = map[int64][]string{}
	}
	g.sends[chatID] = append(g.sends[chatID], text)
	return nil
}

func (g *captureGateway) messages(chatID int64) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.sends[chatID]...)
}

func TestEndToEnd_DailyThenReminderToAllSubscribers(t *testing.T) {
	store := &memStore{subs: []domain.Subscriber{{ChatID: 100}, {ChatID: 200}}}
	gw := &captureGateway{}
	engine := broadcast.NewEngine(store, gw, zap.NewNop(), 10000)
	sched := scheduler.New(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	// A contest starting 15 minutes plus a hair from now: its reminder
	// fire time lands ~50ms in the future.
	now := time.Now()
	start := now.Add(domain.ReminderLead + 50*time.Millisecond)
	feed := &fakeFeed{contests: []domain.Contest{
		{Name: "Cup", Date: domain.DateString(now), StartTime: start.Format(domain.ClockLayout), EndTime: "23:59", Platform: "CF"},
	}}
	// Truncate to the clock minute the contest record actually carries.
	startAt, err := domain.StartAt(feed.contests[0], now)
	require.NoError(t, err)

	d := NewDriver(feed, engine, sched, zap.NewNop())
	d.Run(ctx, startAt.Add(-domain.ReminderLead-50*time.Millisecond))

	for _, chatID := range []int64{100, 200} {
		msgs := gw.messages(chatID)
		require.Len(t, msgs, 1, "daily broadcast should reach chat %d", chatID)
		require.Contains(t, msgs[0], "Cup")
	}

	require.Eventually(t, func() bool {
		return len(gw.messages(100)) == 2 && len(gw.messages(200)) == 2
	}, 3*time.Second, 10*time.Millisecond, "reminder should fire and reach both subscribers")

	for _, chatID := range []int64{100, 200} {
		msgs := gw.messages(chatID)
		require.Contains(t, msgs[1], "15 minutes")
		require.Contains(t, msgs[1], "Cup")
	}
}
