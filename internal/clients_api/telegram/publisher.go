package telegram

// Telegram delivery of rendered charts.
// Every chart goes out as a photo whose caption is the question it answers.
// Sends are rate limited, retried on flood control and guarded by a circuit breaker.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	logging "boxoffice-report/internal/infra/log"
	"boxoffice-report/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxCaptionLen is Telegram's limit for photo captions.
const maxCaptionLen = 1024

// Sender is the part of *tgbotapi.BotAPI the publisher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Options tunes delivery.
type Options struct {
	MessagesPerSecond float64
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
}

// Photo is one image to deliver.
type Photo struct {
	Path    string
	Caption string
}

// Publisher sends photos to one chat.
type Publisher struct {
	sender         Sender
	chatID         int64
	rateLimiter    *rate.Limiter             // Telegram allows roughly one message per second per chat
	circuitBreaker *gobreaker.CircuitBreaker // stops hammering the API once it keeps failing
	retry          retry.Options
}

// NewBot authorizes a bot token.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	return bot, nil
}

// ParseChatID parses a numeric chat id such as "-1001234567890".
func ParseChatID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", s, err)
	}
	return id, nil
}

func NewPublisher(sender Sender, chatID int64, opts Options) *Publisher {
	if opts.MessagesPerSecond <= 0 {
		opts.MessagesPerSecond = 1
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TelegramAPI",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})

	return &Publisher{
		sender:         sender,
		chatID:         chatID,
		rateLimiter:    rate.NewLimiter(rate.Limit(opts.MessagesPerSecond), 1),
		circuitBreaker: circuitBreaker,
		retry: retry.Options{
			MaxRetries: opts.MaxRetries,
			BaseDelay:  opts.BaseDelay,
			MaxDelay:   opts.MaxDelay,
		},
	}
}

// PublishPhoto uploads one image with its caption.
func (p *Publisher) PublishPhoto(ctx context.Context, photo Photo) error {
	if _, err := os.Stat(photo.Path); err != nil {
		return fmt.Errorf("chart file does not exist: %w", err)
	}

	return retry.Do(ctx, p.retry, func() error {
		if err := p.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
		_, err := p.circuitBreaker.Execute(func() (interface{}, error) {
			msg := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(photo.Path))
			msg.Caption = truncateCaption(photo.Caption)
			return p.sender.Send(msg)
		})
		return err
	})
}

// PublishAll sends every photo in order. A failed photo is logged and the rest
// are still sent; the joined errors are returned.
func (p *Publisher) PublishAll(ctx context.Context, photos []Photo) (int, error) {
	sent := 0
	var errs []error
	for _, photo := range photos {
		start := time.Now()
		if err := p.PublishPhoto(ctx, photo); err != nil {
			logging.LogError("Failed to send chart to Telegram",
				zap.String("path", photo.Path),
				zap.Int64("chat_id", p.chatID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", photo.Path, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		sent++
		logging.LogInfo("Chart sent to Telegram",
			zap.String("path", photo.Path),
			zap.Int64("chat_id", p.chatID),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	}
	return sent, errors.Join(errs...)
}

func truncateCaption(caption string) string {
	runes := []rune(caption)
	if len(runes) <= maxCaptionLen {
		return caption
	}
	return string(runes[:maxCaptionLen-1]) + "…"
}
