package tasklist

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultKey is the store key holding the snapshot.
	DefaultKey = "tasks"
	// DefaultNoticeDuration is how long "Task completed!" stays visible.
	DefaultNoticeDuration = 2 * time.Second
)

type options struct {
	key    string
	notice time.Duration
	clock  Clock
	logger *log.Logger
}

// Option configures a Controller.
type Option func(*options)

// WithKey sets the store key. Blank keys are ignored.
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithNoticeDuration sets how long the completion notice stays visible.
// Non-positive durations are ignored.
func WithNoticeDuration(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.notice = d
		}
	}
}

// WithClock replaces the clock used to hide the notice.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		key:    DefaultKey,
		notice: DefaultNoticeDuration,
		clock:  RealClock(),
	}
}

func (o *options) finalize() {
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
}
