package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eurofurence/admin-bot-go/internal/metrics"
)

var ErrEngineClosed = errors.New("conversation engine closed")

// MessageEvent is a text message received from a chat.
type MessageEvent struct {
	ChatID int64
	From   Identity
	Text   string
}

// OptionEvent is a keyboard button pressed on the message MessageID.
type OptionEvent struct {
	ChatID    int64
	From      Identity
	MessageID int
	Value     string
}

// Engine runs one actor per chat. Events of the same chat are handled one
// after another, different chats in parallel.
type Engine struct {
	d   *dispatcher
	now func() time.Time

	mu     sync.Mutex
	actors map[int64]*actor
	closed bool
}

func NewEngine(transport Transport, acl ACLStore, pins PinProvider, devices DeviceRegistry) *Engine {
	d := &dispatcher{
		transport: transport,
		acl:       acl,
		pins:      pins,
		devices:   devices,
		registry:  NewRegistry(),
	}
	for _, cmd := range d.commands() {
		if err := d.registry.Register(cmd); err != nil {
			panic(err)
		}
	}

	return &Engine{
		d:      d,
		now:    time.Now,
		actors: make(map[int64]*actor),
	}
}

// OnMessage handles a text message and returns once all replies are sent.
func (e *Engine) OnMessage(ctx context.Context, ev MessageEvent) error {
	return e.submit(ctx, ev.ChatID, func(ctx context.Context, s *Session) error {
		s.User = ev.From
		return e.d.process(ctx, s, ev.Text)
	})
}

// OnOptionSelected retracts the keyboard the option came from and handles the
// option value like a typed answer.
func (e *Engine) OnOptionSelected(ctx context.Context, ev OptionEvent) error {
	return e.submit(ctx, ev.ChatID, func(ctx context.Context, s *Session) error {
		s.User = ev.From
		e.d.retractKeyboard(ctx, MessageRef{ChatID: ev.ChatID, MessageID: ev.MessageID})
		if s.lastPrompt != nil && s.lastPrompt.MessageID == ev.MessageID {
			s.lastPrompt = nil
		}
		return e.d.process(ctx, s, ev.Value)
	})
}

// EvictIdle stops the actors of chats without activity for longer than
// idleFor. Pending conversations of those chats are dropped.
func (e *Engine) EvictIdle(idleFor time.Duration) int {
	if idleFor <= 0 {
		return 0
	}

	cutoff := e.now().Add(-idleFor).UnixNano()

	e.mu.Lock()
	defer e.mu.Unlock()

	evicted := 0
	for chatID, a := range e.actors {
		if a.busy.Load() || a.lastActive.Load() > cutoff {
			continue
		}
		close(a.quit)
		delete(e.actors, chatID)
		evicted++
	}
	metrics.ActiveSessions.Sub(float64(evicted))
	return evicted
}

// Close stops every actor. Later events fail with ErrEngineClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	for chatID, a := range e.actors {
		close(a.quit)
		delete(e.actors, chatID)
	}
	metrics.ActiveSessions.Set(0)
}

func (e *Engine) actorFor(chatID int64) (*actor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}

	a, ok := e.actors[chatID]
	if !ok {
		a = newActor(chatID)
		e.actors[chatID] = a
		metrics.ActiveSessions.Inc()
		go a.run()
	}
	a.lastActive.Store(e.now().UnixNano())
	return a, nil
}

func (e *Engine) submit(ctx context.Context, chatID int64, fn func(context.Context, *Session) error) error {
	env := envelope{ctx: ctx, fn: fn, done: make(chan error, 1)}

	for {
		a, err := e.actorFor(chatID)
		if err != nil {
			return err
		}

		select {
		case a.mailbox <- env:
		case <-a.quit:
			continue
		case <-ctx.Done():
			return ctx.Err()
		}

		select {
		case err := <-env.done:
			a.lastActive.Store(e.now().UnixNano())
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type envelope struct {
	ctx  context.Context
	fn   func(context.Context, *Session) error
	done chan error
}

type actor struct {
	session *Session
	mailbox chan envelope
	quit    chan struct{}

	busy       atomic.Bool
	lastActive atomic.Int64
}

func newActor(chatID int64) *actor {
	return &actor{
		session: newSession(chatID),
		mailbox: make(chan envelope),
		quit:    make(chan struct{}),
	}
}

func (a *actor) run() {
	for {
		select {
		case env := <-a.mailbox:
			a.busy.Store(true)
			env.done <- a.handle(env)
			a.busy.Store(false)
		case <-a.quit:
			return
		}
	}
}

// handle runs one event. On failure the session drops its pending
// continuation so the next message starts from command dispatch.
func (a *actor) handle(env envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Int64("chatId", a.session.ChatID).
				Interface("panic", r).
				Msg("conversation handler panicked")
			err = fmt.Errorf("conversation handler panicked: %v", r)
		}
		if err != nil {
			a.session.reset()
		}
	}()

	return env.fn(env.ctx, a.session)
}
