package conversation

import "context"

// Identity is the Telegram user behind an event.
type Identity struct {
	ID       int64
	Username string
}

// UID is the requester identity recorded in PIN issue logs.
func (i Identity) UID() string {
	return "Telegram:@" + i.Username
}

// Step names the prompt a session is waiting on.
type Step string

const (
	StepPinRegNo      Step = "pin.regno"
	StepPinName       Step = "pin.name"
	StepPinConfirm    Step = "pin.confirm"
	StepPinInfoRegNo  Step = "pininfo.regno"
	StepLocateRegNo   Step = "locate.regno"
	StepUsersAction   Step = "users.action"
	StepUsersUsername Step = "users.username"
	StepUsersVerb     Step = "users.verb"
	StepUsersFlag     Step = "users.flag"
)

// Continuation consumes the next answer of a session.
type Continuation func(ctx context.Context, in Input) error

type Pending struct {
	Step   Step
	Resume Continuation
}

type State int

const (
	StateIdle State = iota
	StateAwaiting
)

func (s State) String() string {
	if s == StateAwaiting {
		return "awaiting"
	}
	return "idle"
}

// Session is the state of one chat. It is only touched by the actor that owns
// the chat.
type Session struct {
	ChatID int64
	User   Identity

	pending    *Pending
	lastPrompt *MessageRef
}

func newSession(chatID int64) *Session {
	return &Session{ChatID: chatID}
}

func (s *Session) State() State {
	if s.pending != nil {
		return StateAwaiting
	}
	return StateIdle
}

// PendingStep returns the step awaiting an answer, or "" when idle.
func (s *Session) PendingStep() Step {
	if s.pending == nil {
		return ""
	}
	return s.pending.Step
}

// install replaces any pending continuation.
func (s *Session) install(p Pending) {
	s.pending = &p
}

// takePending clears the pending continuation and returns it.
func (s *Session) takePending() *Pending {
	p := s.pending
	s.pending = nil
	return p
}

func (s *Session) reset() {
	s.pending = nil
}
