package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/bus"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/channels"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/chatlog"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/complaints"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/config"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/dispatch"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/logger"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/providers"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/schedule"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/voice"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	dataPath := flag.String("data", "", "path to timetable dataset (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.FatalCF("main", "Failed to load config", map[string]interface{}{"error": err.Error()})
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}

	if cfg.Logging.FileEnabled {
		if err := logger.EnableFileLogging(cfg.Logging.FilePath); err != nil {
			logger.WarnCF("main", "File logging unavailable", map[string]interface{}{"error": err.Error()})
		}
	}

	// The schedule dataset is the one thing the bot cannot run without.
	store, err := schedule.Load(cfg.Data.Path)
	if err != nil {
		logger.FatalCF("main", "Failed to load schedule dataset", map[string]interface{}{"error": err.Error()})
	}
	logger.InfoCF("main", "Schedule dataset loaded", map[string]interface{}{"records": store.Len()})

	tickets := complaints.NewStore(cfg.Data.Complaints)
	transcript := chatlog.New(cfg.Logging.ChatHistory)

	provider := providers.FromConfig(cfg.Providers)
	if provider != nil {
		logger.InfoCF("main", "Generative fallback configured", map[string]interface{}{"provider": provider.Name()})
	}

	// A nil engine reports no capabilities, so speech stays off even
	// when the host has a speech binary installed.
	var voiceEngine *voice.Engine
	if cfg.Voice.Enabled {
		voiceEngine = voice.NewEngine(cfg.Voice.TTSCommand, cfg.Voice.STTCommand)
	}

	msgBus := bus.NewMessageBus()
	dispatcher := dispatch.New(store, tickets, provider, transcript)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cli, err := channels.NewCLIChannel(msgBus, voiceEngine, cancel)
	if err != nil {
		logger.FatalCF("main", "Failed to init CLI", map[string]interface{}{"error": err.Error()})
	}

	active := []channels.Channel{cli}
	if cfg.Channels.Telegram.Enabled {
		tg, err := channels.NewTelegramChannel(cfg.Channels.Telegram, msgBus)
		if err != nil {
			logger.ErrorCF("main", "Telegram channel unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			active = append(active, tg)
		}
	}

	byName := make(map[string]channels.Channel, len(active))
	for _, ch := range active {
		if err := ch.Start(ctx); err != nil {
			logger.ErrorCF("main", "Channel failed to start", map[string]interface{}{
				"channel": ch.Name(),
				"error":   err.Error(),
			})
			continue
		}
		byName[ch.Name()] = ch
	}

	// Replies fan back out to whichever channel asked.
	go func() {
		for {
			msg, ok := msgBus.ConsumeOutbound(ctx)
			if !ok {
				return
			}
			ch, found := byName[msg.Channel]
			if !found {
				continue
			}
			if err := ch.Send(ctx, msg); err != nil {
				logger.ErrorCF("main", "Failed to deliver reply", map[string]interface{}{
					"channel": msg.Channel,
					"error":   err.Error(),
				})
			}
		}
	}()

	// One request at a time, fully processed before the next is read.
	for {
		msg, ok := msgBus.ConsumeInbound(ctx)
		if !ok {
			break
		}
		msgBus.PublishOutbound(dispatcher.HandleMessage(ctx, msg))
	}

	for _, ch := range byName {
		_ = ch.Stop(context.Background())
	}
	msgBus.Close()
	logger.InfoC("main", "Chetna stopped")
}
