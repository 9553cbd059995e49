// Package chatlog appends the conversation transcript to a plain text
// file, best effort. Failures are reported but never block a reply.
package chatlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Writer struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Writer {
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &Writer{path: path}
}

// Event appends one timestamped line.
func (w *Writer) Event(message string) error {
	if w.path == "" {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open chat log: %w", err)
	}
	defer f.Close()

	ts := time.Now().Format("2006-01-02 15:04:05")
	if _, err := fmt.Fprintf(f, "[%s] %s\n", ts, message); err != nil {
		return fmt.Errorf("append chat log: %w", err)
	}
	return nil
}

// Chat records one user/bot exchange.
func (w *Writer) Chat(user, bot string) error {
	if err := w.Event("USER: " + user); err != nil {
		return err
	}
	return w.Event("CHETNA: " + bot)
}
