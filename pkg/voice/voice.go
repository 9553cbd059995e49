// Package voice wraps optional speech collaborators found on the host.
// Availability is a capability flag checked before use; a missing
// binary is normal operation, not an error.
package voice

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/logger"
)

var ttsCandidates = []string{"termux-tts-speak", "espeak-ng", "espeak", "say"}
var sttCandidates = []string{"termux-speech-to-text"}

type Engine struct {
	ttsCmd string
	sttCmd string
}

// NewEngine probes for speech binaries. Configured commands take
// precedence over the built-in candidate lists.
func NewEngine(ttsCommand, sttCommand string) *Engine {
	e := &Engine{
		ttsCmd: firstOnPath(ttsCommand, ttsCandidates),
		sttCmd: firstOnPath(sttCommand, sttCandidates),
	}
	if e.ttsCmd != "" {
		logger.InfoCF("voice", "Speech output available", map[string]interface{}{"command": e.ttsCmd})
	}
	if e.sttCmd != "" {
		logger.InfoCF("voice", "Speech capture available", map[string]interface{}{"command": e.sttCmd})
	}
	return e
}

func firstOnPath(configured string, candidates []string) string {
	if configured != "" {
		if _, err := exec.LookPath(configured); err == nil {
			return configured
		}
		logger.WarnCF("voice", "Configured speech command not found", map[string]interface{}{"command": configured})
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c); err == nil {
			return c
		}
	}
	return ""
}

func (e *Engine) TTSAvailable() bool { return e != nil && e.ttsCmd != "" }
func (e *Engine) STTAvailable() bool { return e != nil && e.sttCmd != "" }

// Say speaks text best-effort; failures are swallowed.
func (e *Engine) Say(ctx context.Context, text string) {
	if !e.TTSAvailable() || text == "" {
		return
	}
	cmd := exec.CommandContext(ctx, e.ttsCmd, text)
	if err := cmd.Run(); err != nil {
		logger.DebugCF("voice", "Speech output failed", map[string]interface{}{"error": err.Error()})
	}
}

// ListenOnce captures a single utterance and returns its transcript, or
// "" when capture is unavailable or failed.
func (e *Engine) ListenOnce(ctx context.Context) string {
	if !e.STTAvailable() {
		return ""
	}
	out, err := exec.CommandContext(ctx, e.sttCmd).Output()
	if err != nil {
		logger.DebugCF("voice", "Speech capture failed", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return strings.TrimSpace(string(out))
}
