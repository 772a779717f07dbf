package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/uthkarsh2006/contestbot/internal/domain"
	"github.com/uthkarsh2006/contestbot/internal/format"
)

// Sender is the outbound surface the router needs; BotGateway
// implements it, tests substitute a recorder.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Registry is the write side of the subscriber store.
type Registry interface {
	Add(ctx context.Context, s *domain.Subscriber) (added bool, err error)
}

// ContestSource supplies contest data for the newcomer sends.
type ContestSource interface {
	TodayContests(now time.Time) []domain.Contest
	All() []domain.Contest
}

// Router wires inbound Telegram updates to handlers.
type Router struct {
	sender Sender
	log    *zap.Logger
	reg    Registry
	feed   ContestSource
}

// NewRouter creates a new update router.
func NewRouter(sender Sender, log *zap.Logger, reg Registry, feed ContestSource) *Router {
	return &Router{sender: sender, log: log, reg: reg, feed: feed}
}

// HandleUpdate routes a single update. Failures are logged and
// swallowed here so one bad update never stops the consume loop.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		r.handleStart(ctx, chatID, msg.From)
	case strings.HasPrefix(text, "/contests"):
		r.sendText(chatID, format.Listing(r.feed.All()))
	case strings.HasPrefix(text, "/stop"):
		r.sendText(chatID, stopText)
	case text != "":
		r.sendText(chatID, hintText)
	}
}

// handleStart registers the sender and immediately gives the new
// subscriber a personal welcome plus today's digest. A repeat /start
// is a no-op registration but still re-sends the digest.
func (r *Router) handleStart(ctx context.Context, chatID int64, from *tgbotapi.User) {
	sub := &domain.Subscriber{
		ChatID:    chatID,
		CreatedAt: time.Now().UTC(),
	}
	if from != nil {
		sub.UserID = from.ID
		sub.FirstName = from.FirstName
		sub.LastName = from.LastName
		sub.Username = from.UserName
		sub.Language = from.LanguageCode
	}

	added, err := r.reg.Add(ctx, sub)
	if err != nil {
		r.log.Error("subscriber registration failed",
			zap.Int64("chat_id", chatID), zap.Error(err))
		r.sendText(chatID, registrationErrText)
		return
	}
	if added {
		r.log.Info("new subscriber",
			zap.Int64("chat_id", chatID), zap.String("username", sub.Username))
	} else {
		r.log.Debug("subscriber already registered", zap.Int64("chat_id", chatID))
	}

	r.sendText(chatID, format.Welcome(sub.FullName()))
	r.sendText(chatID, format.Daily(r.feed.TodayContests(time.Now())))
}

func (r *Router) sendText(chatID int64, text string) {
	if err := r.sender.SendMessage(chatID, text); err != nil {
		r.log.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
