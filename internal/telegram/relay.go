// Package telegram relays Telegram direct messages to the assistant.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"finassist/internal/logger"
)

// maxMessageLength is Telegram's limit for a single text message.
const maxMessageLength = 4096

const startReply = "Hi! I'm your finance assistant. Tell me about an expense or income, or ask for a summary."

// Bot is the subset of the Telegram Bot API the relay uses.
type Bot interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetSelf() tgbotapi.User
}

// Responder answers one chat message for a user.
type Responder interface {
	Respond(ctx context.Context, userID, message string) string
}

type botWrapper struct {
	bot *tgbotapi.BotAPI
}

func (w *botWrapper) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return w.bot.GetUpdatesChan(config)
}

func (w *botWrapper) StopReceivingUpdates() { w.bot.StopReceivingUpdates() }

func (w *botWrapper) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) { return w.bot.Send(c) }

func (w *botWrapper) GetSelf() tgbotapi.User { return w.bot.Self }

// NewBot authorizes against the Bot API with token.
func NewBot(token string) (Bot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &botWrapper{bot: bot}, nil
}

// Relay forwards messages from allow-listed senders to the assistant on
// behalf of a single ledger owner and sends the reply back.
type Relay struct {
	bot       Bot
	assistant Responder
	userID    string
	allowFrom map[string]bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *zap.SugaredLogger
}

// NewRelay creates a relay. Senders are matched by numeric Telegram id or
// by username; an empty allow list rejects everyone.
func NewRelay(bot Bot, assistant Responder, userID string, allowFrom []string) *Relay {
	allowed := make(map[string]bool, len(allowFrom))
	for _, id := range allowFrom {
		allowed[strings.TrimPrefix(strings.TrimSpace(id), "@")] = true
	}
	return &Relay{
		bot:       bot,
		assistant: assistant,
		userID:    userID,
		allowFrom: allowed,
		log:       logger.Named("telegram"),
	}
}

// Start begins long polling in the background.
func (r *Relay) Start(ctx context.Context) {
	if len(r.allowFrom) == 0 {
		r.log.Warn("TELEGRAM_ALLOW_FROM is empty, every message will be rejected")
	}

	ctx, r.cancel = context.WithCancel(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := r.bot.GetUpdatesChan(u)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil {
					r.handleMessage(ctx, update.Message)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	r.log.Infow("polling started", "bot", r.bot.GetSelf().UserName)
}

// Stop ends polling and waits for the message in flight.
func (r *Relay) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.bot.StopReceivingUpdates()
	r.wg.Wait()
}

func (r *Relay) allowed(from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	if r.allowFrom[strconv.FormatInt(from.ID, 10)] {
		return true
	}
	return from.UserName != "" && r.allowFrom[from.UserName]
}

func (r *Relay) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	if !r.allowed(msg.From) {
		var sender int64
		if msg.From != nil {
			sender = msg.From.ID
		}
		r.log.Warnw("rejected message", "sender", sender)
		return
	}

	text := strings.TrimSpace(msg.Text)
	var reply string
	switch {
	case text == "":
		return
	case msg.IsCommand() && msg.Command() == "start":
		reply = startReply
	default:
		reply = r.assistant.Respond(ctx, r.userID, text)
	}

	for _, chunk := range splitMessage(reply, maxMessageLength) {
		out := tgbotapi.NewMessage(msg.Chat.ID, chunk)
		if _, err := r.bot.Send(out); err != nil {
			r.log.Errorw("send failed", "chat_id", msg.Chat.ID, "error", err)
			return
		}
	}
}

// splitMessage cuts text into pieces of at most limit runes, preferring to
// break at a newline.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
