// Package dispatch orchestrates one request: intent extraction,
// schedule queries, reply composition and the fallback chain. Requests
// are handled fully synchronously, one at a time.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/bus"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/chatlog"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/complaints"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/intent"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/lang"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/logger"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/providers"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/schedule"
)

type Dispatcher struct {
	store      *schedule.Store
	tickets    *complaints.Store
	provider   providers.Provider // nil when no generative fallback is configured
	transcript *chatlog.Writer
	now        func() time.Time
}

func New(store *schedule.Store, tickets *complaints.Store, provider providers.Provider, transcript *chatlog.Writer) *Dispatcher {
	return &Dispatcher{
		store:      store,
		tickets:    tickets,
		provider:   provider,
		transcript: transcript,
		now:        time.Now,
	}
}

// HandleMessage processes one inbound request and composes the reply.
// Any unexpected failure is caught here, logged, and turned into a
// generic apology so the run loop keeps going.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg bus.InboundMessage) (out bus.OutboundMessage) {
	out = bus.OutboundMessage{Channel: msg.Channel, ChatID: msg.ChatID}

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("dispatch", "Panic while handling request", map[string]interface{}{
				"panic":          fmt.Sprintf("%v", r),
				"correlation_id": msg.CorrelationID,
			})
			apology := genericApology(lang.Detect(msg.Content))
			out.Content = apology
			out.Speak = apology
		}
	}()

	reply, err := d.Handle(ctx, msg.Content)
	if err != nil {
		logger.ErrorCF("dispatch", "Request failed", map[string]interface{}{
			"error":          err.Error(),
			"correlation_id": msg.CorrelationID,
		})
		reply = genericApology(lang.Detect(msg.Content))
	}

	if d.transcript != nil {
		if err := d.transcript.Chat(msg.Content, reply); err != nil {
			logger.WarnCF("dispatch", "Chat log write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	out.Content = reply
	out.Speak = reply
	return out
}

// Handle runs the intent pipeline for one utterance and returns the
// composed reply. Only complaint persistence can surface an error; all
// lookup misses and validation gaps resolve to localized messages.
func (d *Dispatcher) Handle(ctx context.Context, text string) (string, error) {
	it := intent.Extract(text)

	logger.DebugCF("dispatch", "Intent resolved", map[string]interface{}{
		"category": string(it.Category),
		"language": string(it.Language),
	})

	switch it.Category {
	case intent.Greeting:
		return greetingReply.Pick(it.Language), nil
	case intent.FareQuery:
		return d.fare(it), nil
	case intent.TimingQuery:
		return d.timing(it), nil
	case intent.TrackQuery:
		return d.track(it), nil
	case intent.StatusQuery:
		return d.status(it), nil
	case intent.RouteQuery:
		return d.route(it), nil
	case intent.Complaint:
		return d.complaint(it)
	}

	return d.fallback(ctx, text, it.Language), nil
}

func (d *Dispatcher) fare(it intent.Intent) string {
	if it.BusNumber == "" {
		return lang.Reply{
			EN:     "Please tell me the bus number to check the fare.",
			HI:     "किराया बताने के लिए बस नंबर बताएँ।",
			HiLatn: "Kirpya kiraya batane ke liye bus number bataye.",
		}.Pick(it.Language)
	}
	rec := d.store.FindByNumber(it.BusNumber)
	if rec == nil {
		return busNotFound(it.BusNumber, it.Language)
	}
	return lang.Reply{
		EN:     fmt.Sprintf("The fare for bus %s is %s.", it.BusNumber, rec.Fare),
		HI:     fmt.Sprintf("बस %s का किराया %s है।", it.BusNumber, rec.Fare),
		HiLatn: fmt.Sprintf("Bus %s ka kiraya %s hai.", it.BusNumber, rec.Fare),
	}.Pick(it.Language)
}

func (d *Dispatcher) timing(it intent.Intent) string {
	if it.BusNumber == "" {
		return lang.Reply{
			EN:     "Please tell me the bus number to check timing.",
			HI:     "टाइमिंग बताने के लिए बस नंबर बताएँ।",
			HiLatn: "Kirpya timing batane ke liye bus number bataye.",
		}.Pick(it.Language)
	}
	rec := d.store.FindByNumber(it.BusNumber)
	if rec == nil {
		return busNotFound(it.BusNumber, it.Language)
	}
	return lang.Reply{
		EN:     fmt.Sprintf("Bus %s leaves at %s.", it.BusNumber, rec.Time),
		HI:     fmt.Sprintf("बस %s %s बजे निकलती है।", it.BusNumber, rec.Time),
		HiLatn: fmt.Sprintf("Bus %s %s baje nikalti hai.", it.BusNumber, rec.Time),
	}.Pick(it.Language)
}

func (d *Dispatcher) track(it intent.Intent) string {
	if it.BusNumber == "" {
		return lang.Reply{
			EN:     "Please tell me the bus number to track.",
			HI:     "बस को ट्रैक करने के लिए बस नंबर बताएँ।",
			HiLatn: "Kirpya bus ko track karne ke liye bus number bataye.",
		}.Pick(it.Language)
	}
	rec := d.store.FindByNumber(it.BusNumber)
	if rec == nil {
		return busNotFound(it.BusNumber, it.Language)
	}
	location := d.store.SimulateLocation(rec)
	return lang.Reply{
		EN:     fmt.Sprintf("Bus %s is currently near %s.", it.BusNumber, location),
		HI:     fmt.Sprintf("बस %s अभी %s के पास है।", it.BusNumber, location),
		HiLatn: fmt.Sprintf("Bus %s abhi %s ke paas hai.", it.BusNumber, location),
	}.Pick(it.Language)
}

func (d *Dispatcher) status(it intent.Intent) string {
	if it.BusNumber == "" {
		return lang.Reply{
			EN:     "Please tell me the bus number to check status.",
			HI:     "स्टेटस बताने के लिए बस नंबर बताएँ।",
			HiLatn: "Kirpya status batane ke liye bus number bataye.",
		}.Pick(it.Language)
	}
	if d.store.FindByNumber(it.BusNumber) == nil {
		return busNotFound(it.BusNumber, it.Language)
	}
	delay := schedule.DelayMinutes(it.BusNumber)
	if delay <= 0 {
		return lang.Reply{
			EN:     fmt.Sprintf("Bus %s is on time today.", it.BusNumber),
			HI:     fmt.Sprintf("बस %s आज समय पर है।", it.BusNumber),
			HiLatn: fmt.Sprintf("Bus %s aaj samay par hai.", it.BusNumber),
		}.Pick(it.Language)
	}
	return lang.Reply{
		EN:     fmt.Sprintf("Bus %s is running %d minutes late today.", it.BusNumber, delay),
		HI:     fmt.Sprintf("बस %s आज %d मिनट लेट चल रही है।", it.BusNumber, delay),
		HiLatn: fmt.Sprintf("Bus %s aaj %d minute late chal rahi hai.", it.BusNumber, delay),
	}.Pick(it.Language)
}

func (d *Dispatcher) route(it intent.Intent) string {
	src, dst := it.Source, it.Destination
	if src == "" || dst == "" {
		return lang.Reply{
			EN:     "Please provide both source and destination, e.g., 'buses from Delhi to Karnal'.",
			HI:     "कृपया स्रोत और गंतव्य दोनों बताएँ, जैसे: 'दिल्ली से करनाल की बसें'।",
			HiLatn: "Kirpya source aur destination dono bataye, jaise: 'Delhi se Karnal ki basen'.",
		}.Pick(it.Language)
	}

	if it.AskNext {
		nb := d.store.NextDeparture(src, dst, d.now())
		if nb == nil {
			return lang.Reply{
				EN:     fmt.Sprintf("I could not find the next bus from %s to %s.", src, dst),
				HI:     fmt.Sprintf("माफ़ कीजिए, %s से %s के लिए अगली बस नहीं मिली।", src, dst),
				HiLatn: fmt.Sprintf("Maaf kijiye, %s se %s ke liye agla bus nahi mila.", src, dst),
			}.Pick(it.Language)
		}
		return lang.Reply{
			EN:     fmt.Sprintf("Next bus from %s to %s is %s at %s with fare %s.", src, dst, nb.BusID, nb.Time, nb.Fare),
			HI:     fmt.Sprintf("%s से %s के लिए अगली बस %s है, समय %s, किराया %s।", src, dst, nb.BusID, nb.Time, nb.Fare),
			HiLatn: fmt.Sprintf("%s se %s ke liye agla bus %s hai, samay %s, kiraya %s.", src, dst, nb.BusID, nb.Time, nb.Fare),
		}.Pick(it.Language)
	}

	if it.Period != "" {
		lb := d.store.LastInPeriod(src, dst, it.Period)
		if lb != nil {
			return lang.Reply{
				EN:     fmt.Sprintf("The last %s bus from %s to %s is %s at %s.", it.Period, src, dst, lb.BusID, lb.Time),
				HI:     fmt.Sprintf("%s से %s के लिए %s की आख़िरी बस %s है, समय %s।", src, dst, it.Period, lb.BusID, lb.Time),
				HiLatn: fmt.Sprintf("%s se %s ke liye %s ki aakhri bus %s hai, samay %s.", src, dst, it.Period, lb.BusID, lb.Time),
			}.Pick(it.Language)
		}
		matches := d.store.FindBetween(src, dst)
		if len(matches) > 0 {
			// Route runs, just not inside the requested window.
			var parts []string
			for _, b := range matches {
				parts = append(parts, fmt.Sprintf("%s at %s", b.BusID, b.Time))
			}
			times := strings.Join(parts, ", ")
			return lang.Reply{
				EN:     fmt.Sprintf("No specific %s service. Available buses: %s.", it.Period, times),
				HI:     fmt.Sprintf("विशेष %s सेवा नहीं है। उपलब्ध बसें: %s।", it.Period, times),
				HiLatn: fmt.Sprintf("Vishesh %s seva nahi hai. Uplabdh basen: %s.", it.Period, times),
			}.Pick(it.Language)
		}
		return routeNotFound(src, dst, it.Language)
	}

	matches := d.store.FindBetween(src, dst)
	if len(matches) > 0 {
		lines := make([]string, 0, len(matches))
		for _, b := range matches {
			switch it.Language {
			case lang.Hindi:
				lines = append(lines, fmt.Sprintf("बस %s %s से %s के लिए %s बजे, किराया %s।", b.BusID, b.Source, b.Destination, b.Time, b.Fare))
			case lang.Hinglish:
				lines = append(lines, fmt.Sprintf("Bus %s %s se %s ke liye %s baje, kiraya %s.", b.BusID, b.Source, b.Destination, b.Time, b.Fare))
			default:
				lines = append(lines, fmt.Sprintf("Bus %s from %s to %s at %s (fare %s).", b.BusID, b.Source, b.Destination, b.Time, b.Fare))
			}
		}
		return strings.Join(lines, "\n")
	}

	if nb := d.store.NextDeparture(src, dst, d.now()); nb != nil {
		return lang.Reply{
			EN:     fmt.Sprintf("No direct listing found. Next bus from %s to %s is %s at %s.", src, dst, nb.BusID, nb.Time),
			HI:     fmt.Sprintf("सीधी सूची नहीं मिली। %s से %s की अगली बस %s है, समय %s।", src, dst, nb.BusID, nb.Time),
			HiLatn: fmt.Sprintf("Seedhi suchi nahi mili. %s se %s ka agla bus %s hai, samay %s.", src, dst, nb.BusID, nb.Time),
		}.Pick(it.Language)
	}
	return routeNotFound(src, dst, it.Language)
}

func (d *Dispatcher) complaint(it intent.Intent) (string, error) {
	if it.BusNumber == "" {
		return lang.Reply{
			EN:     "Please mention the bus number in your complaint.",
			HI:     "कृपया अपनी शिकायत में बस नंबर ज़रूर बताएँ।",
			HiLatn: "Kirpya apni shikayat mein bus number zarur bataye.",
		}.Pick(it.Language), nil
	}

	ticket, err := d.tickets.Lodge(it.BusNumber, it.ComplaintText)
	if err != nil {
		return "", fmt.Errorf("lodge complaint: %w", err)
	}

	logger.InfoCF("dispatch", "Complaint lodged", map[string]interface{}{
		"ticket_id":  ticket.TicketID,
		"bus_number": ticket.BusNumber,
	})
	if d.transcript != nil {
		if err := d.transcript.Event(fmt.Sprintf("COMPLAINT %s bus=%s", ticket.TicketID, ticket.BusNumber)); err != nil {
			logger.WarnCF("dispatch", "Chat log write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return lang.Reply{
		EN:     fmt.Sprintf("Your complaint has been logged. Ticket ID: %s.", ticket.TicketID),
		HI:     fmt.Sprintf("आपकी शिकायत दर्ज हो गई है। टिकट आईडी: %s।", ticket.TicketID),
		HiLatn: fmt.Sprintf("Aapki shikayat register ho gayi hai. Ticket ID: %s.", ticket.TicketID),
	}.Pick(it.Language), nil
}

// fallback is the chain for text no rule claimed: a bare bus number is
// treated as a detail lookup, then the generative provider gets a try,
// then a final generic message in the already-detected language.
func (d *Dispatcher) fallback(ctx context.Context, text string, language lang.Language) string {
	if number := intent.ExtractBusNumber(text); number != "" {
		if rec := d.store.FindByNumber(number); rec != nil {
			return lang.Reply{
				EN:     fmt.Sprintf("Bus %s goes from %s to %s at %s with fare %s.", number, rec.Source, rec.Destination, rec.Time, rec.Fare),
				HI:     fmt.Sprintf("बस %s %s से %s जाती है, समय %s, किराया %s।", number, rec.Source, rec.Destination, rec.Time, rec.Fare),
				HiLatn: fmt.Sprintf("Bus %s %s se %s jati hai, samay %s, kiraya %s.", number, rec.Source, rec.Destination, rec.Time, rec.Fare),
			}.Pick(language)
		}
	}

	if d.provider != nil {
		answer, err := d.provider.Generate(ctx, text, language)
		if err != nil {
			logger.WarnCF("dispatch", "Generative fallback failed", map[string]interface{}{
				"provider": d.provider.Name(),
				"error":    err.Error(),
			})
		} else if answer != "" {
			return answer
		}
	}

	return lang.Reply{
		EN:     "I am not sure I understood that. Please rephrase.",
		HI:     "माफ़ कीजिए, मैं समझ नहीं पाई। कृपया दोबारा बताएँ।",
		HiLatn: "Maaf kijiye, main samajh nahi payi. Kripya dobara bataye.",
	}.Pick(language)
}

var greetingReply = lang.Reply{
	EN:     "Hello! I am Chetna. How can I help you with buses today?",
	HI:     "नमस्ते! मैं चेतना बोल रही हूँ। मैं आपकी बस से जुड़ी मदद कैसे कर सकती हूँ?",
	HiLatn: "Namaste! Main Chetna bol rahi hoon. Main aapki bus se judi madad kaise kar sakti hoon?",
}

func busNotFound(number string, l lang.Language) string {
	return lang.Reply{
		EN:     fmt.Sprintf("Sorry, I could not find bus %s.", number),
		HI:     fmt.Sprintf("माफ़ कीजिए, मुझे बस %s नहीं मिली।", number),
		HiLatn: fmt.Sprintf("Maaf kijiye, mujhe bus %s nahi mili.", number),
	}.Pick(l)
}

func routeNotFound(src, dst string, l lang.Language) string {
	return lang.Reply{
		EN:     fmt.Sprintf("No buses found between %s and %s.", src, dst),
		HI:     fmt.Sprintf("%s और %s के बीच कोई बस नहीं मिली।", src, dst),
		HiLatn: fmt.Sprintf("%s aur %s ke beech koi bus nahi mili.", src, dst),
	}.Pick(l)
}

func genericApology(l lang.Language) string {
	return lang.Reply{
		EN:     "Something went wrong. Please try again.",
		HI:     "कुछ गड़बड़ हो गई। कृपया फिर से कोशिश करें।",
		HiLatn: "Kuch gadbad ho gayi. Kripya phir se koshish kare.",
	}.Pick(l)
}
