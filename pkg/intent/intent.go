// Package intent turns raw multilingual text into a structured intent.
// Classification is a priority-ordered keyword cascade, not a trained
// model: the first rule to match wins, so ambiguous text always
// resolves to the earliest category in the table.
package intent

import (
	"regexp"
	"strings"

	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/lang"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/schedule"
)

type Category string

const (
	Greeting    Category = "greeting"
	FareQuery   Category = "fare_query"
	TimingQuery Category = "timing_query"
	TrackQuery  Category = "track_query"
	StatusQuery Category = "status_query"
	Complaint   Category = "complaint"
	RouteQuery  Category = "route_query"
	Unknown     Category = "unknown"
)

// Intent carries the classified category plus whichever entities the
// category uses. Created per request and discarded after dispatch.
type Intent struct {
	Category      Category
	Language      lang.Language
	BusNumber     string
	Source        string
	Destination   string
	Period        schedule.Period
	AskNext       bool
	ComplaintText string
}

var busNumberRe = regexp.MustCompile(`\b(\d{2,4})\b`)

// Route patterns tried in order; the first match wins. Captures stay
// raw, normalization is the caller's concern.
var routePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:from\s+)?([a-zA-Z\x{0900}-\x{097F}]+)\s+to\s+([a-zA-Z\x{0900}-\x{097F}]+)`),
	regexp.MustCompile(`([a-zA-Z\x{0900}-\x{097F}]+)\s+se\s+([a-zA-Z\x{0900}-\x{097F}]+)(?:\s+(?:tak|ke\s+liye))?`),
	regexp.MustCompile(`([a-zA-Z\x{0900}-\x{097F}]+)\s+से\s+([a-zA-Z\x{0900}-\x{097F}]+)(?:\s+तक)?`),
}

var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bhi\b`),
	regexp.MustCompile(`\bhello\b`),
	regexp.MustCompile(`\bhii\b`),
	regexp.MustCompile(`\bhey\b`),
	regexp.MustCompile(`\bhiii\b`),
	regexp.MustCompile(`\bnamaste\b`),
	regexp.MustCompile(`\bnamaskar\b`),
	regexp.MustCompile(`नमस्ते`),
	regexp.MustCompile(`नमस्कार`),
}

var (
	fareWords   = []string{"fare", "kiraya", "price", "ticket", "किराया"}
	timingWords = []string{"time", "timing", "schedule", "kab", "baje", "कब", "समय", "टाइम", "बजे"}
	trackWords  = []string{
		"track", "kidhar", "where", "kahan", "location",
		"कहाँ", "कहां", "abhi kaha hai", "bus kidhar hai",
		"se aane wali bus", "bus ka pata", "bus location",
	}
	statusWords    = []string{"status", "on time", "ontime", "late", "delay", "delayed", "लेट", "देरी"}
	complaintWords = []string{
		"complaint", "shikayat", "issue", "problem",
		"rude", "driver", "bad", "ganda", "gandi", "gandi tarah",
		"misbehave", "not found", "missing", "unclean", "dirty",
		"बदतमीज", "शिकायत", "गंदा", "गंदी",
	}
)

// The cascade is the precedence order, laid out as data rather than
// hidden in control flow. route_query and unknown come after it because
// they depend on extracted entities, not on keyword hits.
type rule struct {
	category Category
	matches  func(text string) bool
}

var cascade = []rule{
	{Greeting, isGreeting},
	{FareQuery, hasAny(fareWords)},
	{TimingQuery, hasAny(timingWords)},
	{TrackQuery, hasAny(trackWords)},
	{StatusQuery, hasAny(statusWords)},
	{Complaint, hasAny(complaintWords)},
}

func hasAny(words []string) func(string) bool {
	return func(text string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

func isGreeting(text string) bool {
	for _, p := range greetingPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Extract classifies text and pulls out the entities relevant to the
// winning category.
func Extract(text string) Intent {
	trimmed := strings.TrimSpace(text)
	low := strings.ToLower(trimmed)
	language := lang.Detect(trimmed)
	busNumber := extractBusNumber(low)
	src, dst := extractRoute(low)

	for _, r := range cascade {
		if !r.matches(low) {
			continue
		}
		it := Intent{Category: r.category, Language: language}
		switch r.category {
		case Greeting:
		case Complaint:
			it.BusNumber = busNumber
			it.ComplaintText = trimmed
		case TrackQuery:
			it.BusNumber = busNumber
			it.Source = src
			it.Destination = dst
		default:
			it.BusNumber = busNumber
		}
		return it
	}

	if src != "" && dst != "" {
		return Intent{
			Category:    RouteQuery,
			Language:    language,
			Source:      titleCase(src),
			Destination: titleCase(dst),
			Period:      extractPeriod(low),
			AskNext:     isNextAsked(low),
		}
	}

	return Intent{Category: Unknown, Language: language}
}

// ExtractBusNumber returns the first standalone 2-4 digit token, or ""
// when none is present. Exposed for the dispatcher's digit fallback.
func ExtractBusNumber(text string) string {
	return extractBusNumber(strings.ToLower(text))
}

func extractBusNumber(text string) string {
	m := busNumberRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func extractRoute(text string) (string, string) {
	collapsed := strings.Join(strings.Fields(text), " ")
	for _, p := range routePatterns {
		if m := p.FindStringSubmatch(collapsed); m != nil {
			return m[1], m[2]
		}
	}
	return "", ""
}

func extractPeriod(text string) schedule.Period {
	switch {
	case hasAny([]string{"morning", "subah", "सुबह"})(text):
		return schedule.Morning
	case hasAny([]string{"afternoon", "dopahar", "दोपहर"})(text):
		return schedule.Afternoon
	case hasAny([]string{"evening", "shaam", "शाम"})(text):
		return schedule.Evening
	case hasAny([]string{"night", "raat", "रात"})(text):
		return schedule.Night
	}
	return ""
}

func isNextAsked(text string) bool {
	return hasAny([]string{"next", "agla", "agli", "aagle"})(text)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
