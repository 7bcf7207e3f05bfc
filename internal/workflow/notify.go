package workflow

import (
	"log/slog"
	"sync"
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(msg string) { n.logger.Info(msg, "action", "notify") }

func (n *LogNotifier) Failure(msg string) { n.logger.Warn(msg, "action", "notify") }

// Notification is one recorded message.
type Notification struct {
	OK      bool
	Message string
}

// Recorder keeps notifications in memory; the CLI drains it after each
// command.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Success(msg string) { r.add(Notification{OK: true, Message: msg}) }

func (r *Recorder) Failure(msg string) { r.add(Notification{Message: msg}) }

func (r *Recorder) add(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// Drain returns and clears the recorded notifications.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}
