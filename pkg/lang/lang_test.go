package lang

import "testing"

func TestDetectDevanagariWinsOverLatinMarkers(t *testing.T) {
	inputs := []string{
		"दिल्ली से करनाल",
		"bus कब निकलती है",
		"नमस्ते",
	}
	for _, in := range inputs {
		if got := Detect(in); got != Hindi {
			t.Fatalf("Detect(%q) = %s, want hi", in, got)
		}
	}
}

func TestDetectPlainEnglish(t *testing.T) {
	inputs := []string{
		"hello there",
		"what a lovely day",
		"",
	}
	for _, in := range inputs {
		if got := Detect(in); got != English {
			t.Fatalf("Detect(%q) = %s, want en", in, got)
		}
	}
}

func TestDetectRomanGreetingIsHinglish(t *testing.T) {
	if got := Detect("Namaste"); got != Hinglish {
		t.Fatalf("Detect(namaste) = %s, want hi-latn", got)
	}
	if got := Detect("salaam ji"); got != Hinglish {
		t.Fatalf("Detect(salaam ji) = %s, want hi-latn", got)
	}
}

func TestDetectMarkerThreshold(t *testing.T) {
	// Two or more marker hits flip to Hinglish.
	if got := Detect("Delhi se Karnal agla bus"); got != Hinglish {
		t.Fatalf("Detect = %s, want hi-latn", got)
	}
	// A single incidental hit stays English.
	if got := Detect("the tracks run north"); got != English {
		t.Fatalf("Detect = %s, want en", got)
	}
}

func TestPickSelectsVariant(t *testing.T) {
	r := Reply{EN: "hello", HI: "नमस्ते", HiLatn: "namaste"}

	if got := r.Pick(English); got != "hello" {
		t.Fatalf("Pick(en) = %q", got)
	}
	if got := r.Pick(Hindi); got != "नमस्ते" {
		t.Fatalf("Pick(hi) = %q", got)
	}
	if got := r.Pick(Hinglish); got != "namaste" {
		t.Fatalf("Pick(hi-latn) = %q", got)
	}
}

func TestPickFallbacks(t *testing.T) {
	// Hinglish prefers Hindi when no Hinglish variant exists.
	r := Reply{EN: "hello", HI: "नमस्ते"}
	if got := r.Pick(Hinglish); got != "नमस्ते" {
		t.Fatalf("Pick(hi-latn) = %q, want Hindi variant", got)
	}

	// English-only replies come back unchanged for any language.
	enOnly := Reply{EN: "hello"}
	if got := enOnly.Pick(Hindi); got != "hello" {
		t.Fatalf("Pick(hi) on EN-only reply = %q, want EN", got)
	}
	if got := enOnly.Pick(Language("xx")); got != "hello" {
		t.Fatalf("Pick(unknown) = %q, want EN", got)
	}
}
