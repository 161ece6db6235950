// Package tasklist holds the to-do list state and mirrors every change to a
// storage.Store.
//
// The Controller owns an ordered list of todo.Task values addressed by
// position. Each mutating call rewrites the whole snapshot under a single
// store key. Toggling a task also raises a short-lived completion notice
// which hides itself after the configured duration; toggling again while it
// is visible restarts the countdown.
package tasklist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// Controller is safe for concurrent use.
type Controller struct {
	store  storage.Store
	key    string
	notice time.Duration
	clock  Clock
	logger *log.Logger

	mu            sync.Mutex
	draft         string
	tasks         []todo.Task
	noticeVisible bool
	noticeTimer   Timer
	noticeGen     uint64
	closed        bool

	noticeCh chan struct{}
}

// New loads the persisted list from store. Missing, unreadable or malformed
// data yields an empty list; New itself never fails.
func New(ctx context.Context, store storage.Store, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.finalize()

	c := &Controller{
		store:    store,
		key:      o.key,
		notice:   o.notice,
		clock:    o.clock,
		logger:   o.logger,
		tasks:    []todo.Task{},
		noticeCh: make(chan struct{}, 1),
	}
	c.load(ctx)
	return c
}

func (c *Controller) load(ctx context.Context) {
	data, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.Debug("read stored tasks", "key", c.key, "err", err)
		return
	}
	if !found {
		c.logger.Debug("no stored tasks", "key", c.key)
		return
	}
	tasks, err := todo.Decode(data)
	if err != nil {
		c.logger.Debug("ignoring stored tasks", "key", c.key, "err", err)
		return
	}
	c.tasks = tasks
	c.logger.Debug("loaded tasks", "key", c.key, "count", len(tasks))
}

// persist must be called with c.mu held.
func (c *Controller) persist(ctx context.Context) error {
	data, err := todo.Encode(c.tasks)
	if err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		c.logger.Error("persist tasks", "key", c.key, "err", err)
		return fmt.Errorf("persist tasks: %w", err)
	}
	c.logger.Debug("persisted tasks", "key", c.key, "count", len(c.tasks))
	return nil
}

// SetDraftText replaces the pending input text.
func (c *Controller) SetDraftText(s string) {
	c.mu.Lock()
	c.draft = s
	c.mu.Unlock()
}

// DraftText returns the pending input text.
func (c *Controller) DraftText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SubmitTask appends the trimmed draft as a new task and clears the draft.
// A blank draft is ignored and kept. added reports whether a task was added.
func (c *Controller) SubmitTask(ctx context.Context) (added bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := strings.TrimSpace(c.draft)
	if text == "" {
		return false, nil
	}
	c.tasks = append(c.tasks, todo.Task{Text: text})
	c.draft = ""
	return true, c.persist(ctx)
}

// DeleteTask removes the task at index. Out-of-range indexes are ignored.
func (c *Controller) DeleteTask(ctx context.Context, index int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inRange(index) {
		return false, nil
	}
	c.tasks = append(c.tasks[:index:index], c.tasks[index+1:]...)
	return true, c.persist(ctx)
}

// ToggleComplete flips the completed flag at index and shows the completion
// notice. Out-of-range indexes are ignored.
func (c *Controller) ToggleComplete(ctx context.Context, index int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inRange(index) {
		return false, nil
	}
	c.tasks[index].Completed = !c.tasks[index].Completed
	err := c.persist(ctx)
	c.showNotice()
	return true, err
}

// EditTask replaces the text at index. ok=false means the edit was cancelled
// and nothing changes. The new text is stored verbatim, blank included.
func (c *Controller) EditTask(ctx context.Context, index int, newText string, ok bool) (bool, error) {
	if !ok {
		return false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inRange(index) {
		return false, nil
	}
	c.tasks[index].Text = newText
	return true, c.persist(ctx)
}

// ClearAll removes every task.
func (c *Controller) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tasks = []todo.Task{}
	return c.persist(ctx)
}

// Tasks returns a copy of the current list.
func (c *Controller) Tasks() []todo.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return todo.Clone(c.tasks)
}

// Len returns the number of tasks.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// Task returns the task at index.
func (c *Controller) Task(index int) (todo.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inRange(index) {
		return todo.Task{}, false
	}
	return c.tasks[index], true
}

// NoticeVisible reports whether the completion notice is showing.
func (c *Controller) NoticeVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.noticeVisible
}

// NoticeChanged is signalled whenever the notice is shown or hidden.
// Signals coalesce; receivers should re-read NoticeVisible.
func (c *Controller) NoticeChanged() <-chan struct{} {
	return c.noticeCh
}

// Close cancels a pending notice hide. The store is not closed.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
	return nil
}

func (c *Controller) inRange(index int) bool {
	return index >= 0 && index < len(c.tasks)
}

// showNotice must be called with c.mu held.
func (c *Controller) showNotice() {
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
	}
	c.noticeGen++
	gen := c.noticeGen
	c.noticeVisible = true
	c.signalNotice()
	if c.closed {
		c.noticeTimer = nil
		return
	}
	c.noticeTimer = c.clock.AfterFunc(c.notice, func() { c.hideNotice(gen) })
}

func (c *Controller) hideNotice(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A later toggle owns the notice now.
	if gen != c.noticeGen {
		return
	}
	c.noticeVisible = false
	c.noticeTimer = nil
	c.signalNotice()
}

func (c *Controller) signalNotice() {
	select {
	case c.noticeCh <- struct{}{}:
	default:
	}
}
