// Package channels holds the conversational front-ends: the readline
// CLI and an optional Telegram bot. Channels publish raw user lines to
// the bus and render the dispatcher's replies.
package channels

import (
	"context"
	"sync/atomic"

	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/bus"
)

type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, msg bus.OutboundMessage) error
}

type BaseChannel struct {
	name      string
	bus       *bus.MessageBus
	allowFrom []string
	running   atomic.Bool
}

func NewBaseChannel(name string, messageBus *bus.MessageBus, allowFrom []string) *BaseChannel {
	return &BaseChannel{
		name:      name,
		bus:       messageBus,
		allowFrom: allowFrom,
	}
}

func (b *BaseChannel) Name() string { return b.name }

func (b *BaseChannel) IsRunning() bool { return b.running.Load() }

func (b *BaseChannel) setRunning(v bool) { b.running.Store(v) }

// IsAllowed reports whether a sender may talk to the bot. An empty
// allowlist admits everyone.
func (b *BaseChannel) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, id := range b.allowFrom {
		if id == senderID {
			return true
		}
	}
	return false
}
