// Package lang classifies user text into English, Hindi or Hinglish and
// selects the matching reply variant. Detection is a keyword heuristic,
// not a statistical model; ties default to English.
package lang

import "strings"

type Language string

const (
	English  Language = "en"
	Hindi    Language = "hi"
	Hinglish Language = "hi-latn"
)

// Greetings typed in Latin script count as Hinglish on their own.
var hinglishGreetings = []string{
	"namaste", "namaskar", "pranam", "pranaam", "ram ram",
	"salaam", "salam", "adaab",
	"sat sri akaal", "satsriakaal", "satshriakal",
}

// Common Hindi/Hinglish function words and domain tokens. Two or more
// hits classify the text as Hinglish.
var hinglishMarkers = []string{
	"hai", "kya", "kyu", "kyun", "kab", "kaun", "kaise", "kidhar", "kahan",
	"se", "tak", "ke", "ka", "ki", "hona", "nikalti", "kiraya", "bus",
	"agla", "shaam", "subah", "rude", "shikayat", "complaint", "driver",
}

// Detect classifies text as en, hi or hi-latn. Any Devanagari character
// wins over every Latin-script signal.
func Detect(text string) Language {
	if text == "" {
		return English
	}

	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return Hindi
		}
	}

	t := strings.ToLower(strings.TrimSpace(text))

	for _, g := range hinglishGreetings {
		if strings.Contains(t, g) {
			return Hinglish
		}
	}

	score := 0
	for _, w := range hinglishMarkers {
		if strings.Contains(t, w) {
			score++
		}
	}
	if score >= 2 {
		return Hinglish
	}
	return English
}
