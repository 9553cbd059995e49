package channels

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/bus"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/config"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/logger"
)

// TelegramChannel exposes the assistant over a Telegram bot, text only,
// long polling.
type TelegramChannel struct {
	*BaseChannel
	bot    *telego.Bot
	config config.TelegramConfig
}

func NewTelegramChannel(cfg config.TelegramConfig, messageBus *bus.MessageBus) (*TelegramChannel, error) {
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramChannel{
		BaseChannel: NewBaseChannel("telegram", messageBus, cfg.AllowFrom),
		bot:         bot,
		config:      cfg,
	}, nil
}

func (c *TelegramChannel) Start(ctx context.Context) error {
	logger.InfoC("telegram", "Starting Telegram bot (polling mode)...")

	updates, err := c.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 30,
	})
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	c.setRunning(true)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					logger.InfoC("telegram", "Updates channel closed")
					c.setRunning(false)
					return
				}
				if update.Message != nil && update.Message.Text != "" {
					c.handleMessage(update)
				}
			}
		}
	}()

	return nil
}

func (c *TelegramChannel) handleMessage(update telego.Update) {
	msg := update.Message

	senderID := ""
	if msg.From != nil {
		senderID = strconv.FormatInt(msg.From.ID, 10)
	}
	if !c.IsAllowed(senderID) {
		logger.DebugCF("telegram", "Sender not in allowlist", map[string]interface{}{"sender": senderID})
		return
	}

	c.bus.PublishInbound(bus.InboundMessage{
		Channel:       c.Name(),
		SenderID:      senderID,
		ChatID:        strconv.FormatInt(msg.Chat.ID, 10),
		Content:       msg.Text,
		CorrelationID: uuid.NewString(),
	})
}

func (c *TelegramChannel) Stop(ctx context.Context) error {
	logger.InfoC("telegram", "Stopping Telegram bot...")
	c.setRunning(false)
	return nil
}

func (c *TelegramChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if !c.IsRunning() {
		return fmt.Errorf("telegram bot not running")
	}

	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	if _, err := c.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), msg.Content)); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
