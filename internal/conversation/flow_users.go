package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/eurofurence/admin-bot-go/internal/audit"
	"github.com/eurofurence/admin-bot-go/internal/permission"
)

const usersTitle = "User Management"

const (
	verbAdd    = "add"
	verbRemove = "remove"
)

// aclEditor walks an administrator through listing users and editing the
// permission set of one of them.
type aclEditor struct {
	d *dispatcher
	s *Session

	username string
	verb     string
	offered  []permission.Flags
}

func (d *dispatcher) startUserAdmin(ctx context.Context, s *Session) error {
	f := &aclEditor{d: d, s: s}
	return f.askAction(ctx)
}

func (f *aclEditor) askAction(ctx context.Context) error {
	return f.d.ask(ctx, f.s, StepUsersAction,
		fmt.Sprintf("*%s*\nWhat do you want to do?", usersTitle),
		f.onAction, optionListUsers, optionEditUser, optionCancel)
}

func (f *aclEditor) onAction(ctx context.Context, in Input) error {
	switch in.Sentinel {
	case SentinelListUsers:
		return f.listUsers(ctx)
	case SentinelEditUser:
		return f.askUsername(ctx)
	default:
		if err := f.d.reply(ctx, f.s, "Please pick one of the offered actions."); err != nil {
			return err
		}
		return f.askAction(ctx)
	}
}

func (f *aclEditor) listUsers(ctx context.Context) error {
	users, err := f.d.acl.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\nCurrent Users in Database:\n\n", usersTitle)
	for _, user := range users {
		fmt.Fprintf(&b, "@%s - `%s`\n", user.Username, user.Permissions)
	}
	if err := f.d.reply(ctx, f.s, b.String()); err != nil {
		return err
	}
	return f.askAction(ctx)
}

func (f *aclEditor) askUsername(ctx context.Context) error {
	return f.d.ask(ctx, f.s, StepUsersUsername,
		fmt.Sprintf("*%s*\nPlease type the user name (without @ prefix)", usersTitle),
		f.onUsername, optionCancel)
}

func (f *aclEditor) onUsername(ctx context.Context, in Input) error {
	username := strings.TrimPrefix(strings.TrimSpace(in.Text), "@")
	if username == "" || strings.ContainsAny(username, " \t\n") {
		if err := f.d.reply(ctx, f.s, "_Please type a single user name._"); err != nil {
			return err
		}
		return f.askUsername(ctx)
	}

	f.username = username
	return f.askVerb(ctx)
}

func (f *aclEditor) askVerb(ctx context.Context) error {
	held, err := f.d.acl.GetPermissions(ctx, f.username)
	if err != nil {
		return fmt.Errorf("get permissions of %s: %w", f.username, err)
	}

	return f.d.ask(ctx, f.s, StepUsersVerb,
		fmt.Sprintf("*%s*\nUser @%s has flags: `%s`", usersTitle, f.username, held),
		f.onVerb, optionAdd, optionRemove, optionBack, optionCancel)
}

func (f *aclEditor) onVerb(ctx context.Context, in Input) error {
	if in.Is(SentinelBack) {
		return f.askAction(ctx)
	}

	verb := strings.ToLower(strings.TrimSpace(in.Text))
	if verb != verbAdd && verb != verbRemove {
		if err := f.d.reply(ctx, f.s, "Please choose *add* or *remove*."); err != nil {
			return err
		}
		return f.askVerb(ctx)
	}

	held, err := f.d.acl.GetPermissions(ctx, f.username)
	if err != nil {
		return fmt.Errorf("get permissions of %s: %w", f.username, err)
	}

	available := held.Missing()
	if verb == verbRemove {
		available = held.Held()
	}

	if len(available) == 0 {
		if err := f.d.reply(ctx, f.s, fmt.Sprintf("*%s*\nModifying: @%s\n\nThere are no flags to *%s*.", usersTitle, f.username, verb)); err != nil {
			return err
		}
		return f.askVerb(ctx)
	}

	f.verb = verb
	f.offered = available

	names := make([]string, len(available))
	for i, flag := range available {
		names[i] = flag.String()
	}
	if err := f.d.reply(ctx, f.s, fmt.Sprintf("*%s*\nModifying: @%s\n\nAvailable flags to *%s*: `%s`", usersTitle, f.username, verb, strings.Join(names, ","))); err != nil {
		return err
	}
	return f.askFlag(ctx)
}

func (f *aclEditor) askFlag(ctx context.Context) error {
	options := make([]Option, 0, len(f.offered)+2)
	for _, flag := range f.offered {
		options = append(options, Option{Label: flag.String(), Value: flag.String()})
	}
	options = append(options, optionBack, optionCancel)

	return f.d.ask(ctx, f.s, StepUsersFlag,
		fmt.Sprintf("Please type which flag to *%s*.", f.verb),
		f.onFlag, options...)
}

func (f *aclEditor) onFlag(ctx context.Context, in Input) error {
	if in.Is(SentinelBack) {
		return f.askVerb(ctx)
	}

	flag, ok := permission.Parse(in.Text)
	if !ok || !f.isOffered(flag) {
		if err := f.d.reply(ctx, f.s, "Invalid flag."); err != nil {
			return err
		}
		return f.askFlag(ctx)
	}

	current, err := f.d.acl.GetPermissions(ctx, f.username)
	if err != nil {
		return fmt.Errorf("get permissions of %s: %w", f.username, err)
	}

	updated := current.Add(flag)
	if f.verb == verbRemove {
		updated = current.Remove(flag)
	}

	if err := f.d.acl.SetPermissions(ctx, f.username, updated); err != nil {
		return fmt.Errorf("set permissions of %s: %w", f.username, err)
	}

	audit.Log(ctx, audit.Event{
		Type:     audit.EventACLChange,
		ActorUID: f.s.User.UID(),
		ChatID:   f.s.ChatID,
		Details: map[string]interface{}{
			"target":   f.username,
			"verb":     f.verb,
			"flag":     flag.String(),
			"previous": current.String(),
			"acl":      updated.String(),
		},
	})

	return f.askVerb(ctx)
}

func (f *aclEditor) isOffered(flag permission.Flags) bool {
	for _, offered := range f.offered {
		if offered == flag {
			return true
		}
	}
	return false
}
