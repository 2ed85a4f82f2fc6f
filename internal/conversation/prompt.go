package conversation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ask sends question and waits for the next answer of the session in next.
func (d *dispatcher) ask(ctx context.Context, s *Session, step Step, question string, next Continuation, options ...Option) error {
	ref, err := d.transport.SendMessage(ctx, s.ChatID, question, options)
	if err != nil {
		return fmt.Errorf("ask %s: %w", step, err)
	}

	s.install(Pending{Step: step, Resume: next})
	if len(options) > 0 {
		s.lastPrompt = &ref
	}
	return nil
}

func (d *dispatcher) reply(ctx context.Context, s *Session, text string, options ...Option) error {
	if _, err := d.transport.SendMessage(ctx, s.ChatID, text, options); err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	return nil
}

// clearLastPromptOptions retracts the keyboard of the last prompt so it
// cannot be answered twice. A failed retraction only leaves a stale keyboard
// behind: its buttons resolve against the current state, so the answer that
// triggered the cleanup is still processed.
func (d *dispatcher) clearLastPromptOptions(ctx context.Context, s *Session) {
	if s.lastPrompt == nil {
		return
	}

	ref := *s.lastPrompt
	s.lastPrompt = nil
	d.retractKeyboard(ctx, ref)
}

func (d *dispatcher) retractKeyboard(ctx context.Context, ref MessageRef) {
	if err := d.transport.RetractKeyboard(ctx, ref.ChatID, ref.MessageID); err != nil {
		log.Warn().
			Err(err).
			Int64("chatId", ref.ChatID).
			Int("messageId", ref.MessageID).
			Msg("failed to retract keyboard")
	}
}
