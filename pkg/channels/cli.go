package channels

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/bus"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/lang"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/logger"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/voice"
)

// CLIChannel is the interactive shell. If a speech-capture collaborator
// is available it is tried once per prompt before typed input.
type CLIChannel struct {
	*BaseChannel
	rl       *readline.Instance
	voice    *voice.Engine
	shutdown context.CancelFunc
}

func NewCLIChannel(messageBus *bus.MessageBus, voiceEngine *voice.Engine, shutdown context.CancelFunc) (*CLIChannel, error) {
	rl, err := readline.New("You: ")
	if err != nil {
		return nil, fmt.Errorf("failed to init readline: %w", err)
	}
	return &CLIChannel{
		BaseChannel: NewBaseChannel("cli", messageBus, nil),
		rl:          rl,
		voice:       voiceEngine,
		shutdown:    shutdown,
	}, nil
}

func (c *CLIChannel) Start(ctx context.Context) error {
	c.setRunning(true)
	fmt.Println("Chetna started! Type 'help' for options and 'exit' to quit.")

	go c.readLoop(ctx)
	return nil
}

func (c *CLIChannel) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := ""
		if c.voice.STTAvailable() {
			line = c.voice.ListenOnce(ctx)
			if line != "" {
				fmt.Printf("You (voice): %s\n", line)
			}
		}
		if line == "" {
			var err error
			line, err = c.rl.Readline()
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nChetna: Goodbye!")
				c.shutdown()
				return
			}
			if err != nil {
				logger.ErrorCF("cli", "Read failed", map[string]interface{}{"error": err.Error()})
				continue
			}
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		low := strings.ToLower(line)
		switch low {
		case "exit", "quit", "bye":
			bye := lang.Reply{
				EN:     "Goodbye! Have a safe journey.",
				HI:     "अलविदा! आपकी यात्रा शुभ हो।",
				HiLatn: "Goodbye! Aapki yatra shubh ho.",
			}.Pick(lang.Detect(line))
			fmt.Printf("Chetna: %s\n", bye)
			c.voice.Say(ctx, bye)
			c.shutdown()
			return
		case "help", "menu":
			fmt.Printf("Chetna:\n%s\n", helpText(lang.Detect(line)))
			continue
		}

		c.bus.PublishInbound(bus.InboundMessage{
			Channel:       c.Name(),
			SenderID:      "local",
			ChatID:        "local",
			Content:       line,
			CorrelationID: uuid.NewString(),
		})
	}
}

func (c *CLIChannel) Stop(ctx context.Context) error {
	c.setRunning(false)
	return c.rl.Close()
}

func (c *CLIChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	fmt.Printf("Chetna: %s\n", msg.Content)
	if msg.Speak != "" {
		c.voice.Say(ctx, msg.Speak)
	}
	return nil
}

func helpText(l lang.Language) string {
	switch l {
	case lang.Hindi:
		return "मैं आपकी इन बातों में मदद कर सकती हूँ:\n" +
			"- किराया: '701 का किराया'\n" +
			"- समय: '1001 कब निकलती है'\n" +
			"- ट्रैक: '702 कहाँ है'\n" +
			"- रूट: 'दिल्ली से करनाल की बसें'\n" +
			"- अगली बस: 'दिल्ली से करनाल अगली बस'\n" +
			"- स्टेटस: '1001 लेट है?'\n" +
			"- शिकायत: 'complaint bus 702 driver rude'\n" +
			"- सिर्फ नंबर टाइप करें जैसे '702' — उसके डिटेल्स मिलेंगे।\n" +
			"- 'exit' टाइप करके बाहर निकलें।"
	case lang.Hinglish:
		return "Main in cheezon me madad kar sakti hoon:\n" +
			"- Kiraya: '701 ka kiraya'\n" +
			"- Samay: '1001 kab nikalti hai'\n" +
			"- Track: '702 kidhar hai'\n" +
			"- Route: 'Delhi se Karnal ki basen'\n" +
			"- Agla bus: 'Delhi se Karnal agla bus'\n" +
			"- Status: '1001 late hai?'\n" +
			"- Sirf number type kare jaise '702' — details milengi.\n" +
			"- 'exit' type karke bahar nikle."
	default:
		return "I can help with:\n" +
			"- Fare: 'fare of bus 701'\n" +
			"- Timing: 'timing of 1001'\n" +
			"- Track: 'where is 702'\n" +
			"- Routes: 'buses from Delhi to Karnal'\n" +
			"- Next bus: 'next bus from Delhi to Karnal'\n" +
			"- Status: 'is 1001 on time?'\n" +
			"- Complaint: 'complaint bus 702 driver rude'\n" +
			"- Type only a number like '702' to see its details.\n" +
			"- Type 'exit' to quit."
	}
}
