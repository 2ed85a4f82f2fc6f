package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eurofurence/admin-bot-go/internal/metrics"
	"github.com/eurofurence/admin-bot-go/internal/permission"
)

const (
	cancelledText  = "Send /start for a list of commands."
	noCommandsText = "Sorry, I don't have any commands for you that you have access to. If you think this is in error, contact an administrator."
)

type dispatcher struct {
	transport Transport
	acl       ACLStore
	pins      PinProvider
	devices   DeviceRegistry
	registry  *Registry
}

// process routes one answer of the session: cancel, then the pending
// continuation, then command resolution.
func (d *dispatcher) process(ctx context.Context, s *Session, raw string) error {
	in := ParseInput(raw)

	if in.Is(SentinelCancel) {
		s.takePending()
		d.clearLastPromptOptions(ctx, s)
		return d.reply(ctx, s, cancelledText)
	}

	if pending := s.takePending(); pending != nil {
		d.clearLastPromptOptions(ctx, s)
		log.Debug().
			Int64("chatId", s.ChatID).
			Str("step", string(pending.Step)).
			Msg("resuming conversation")
		return pending.Resume(ctx, in)
	}

	granted, err := d.acl.GetPermissions(ctx, s.User.Username)
	if err != nil {
		return fmt.Errorf("get permissions of %s: %w", s.User.Username, err)
	}

	token := firstToken(in.Text)
	if strings.EqualFold(token, "/start") {
		return d.help(ctx, s, granted)
	}

	cmd, ok := d.registry.Resolve(token)
	if !ok || !permission.Evaluate(granted, cmd.Required) {
		return d.help(ctx, s, granted)
	}

	metrics.CommandsTotal.WithLabelValues(cmd.Name).Inc()
	log.Info().
		Int64("chatId", s.ChatID).
		Str("username", s.User.Username).
		Str("command", cmd.Name).
		Msg("command invoked")
	return cmd.Handler(ctx, s)
}

func (d *dispatcher) help(ctx context.Context, s *Session, granted permission.Flags) error {
	visible := d.registry.Visible(granted)
	if len(visible) == 0 {
		return d.reply(ctx, s, noCommandsText)
	}

	var b strings.Builder
	b.WriteString("You have access to the following commands:\n\n")
	for _, cmd := range visible {
		fmt.Fprintf(&b, "%s - %s\n", cmd.Name, cmd.Description)
	}
	return d.reply(ctx, s, b.String())
}
