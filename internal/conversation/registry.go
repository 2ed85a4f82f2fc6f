package conversation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/eurofurence/admin-bot-go/internal/permission"
)

type CommandHandler func(ctx context.Context, s *Session) error

type Command struct {
	Name        string
	Description string
	Required    permission.Flags
	Handler     CommandHandler
}

// Registry maps command names to commands. Names match case-insensitively.
type Registry struct {
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

func (r *Registry) Register(cmd Command) error {
	if cmd.Name == "" {
		return errors.New("command name is required")
	}
	if cmd.Handler == nil {
		return fmt.Errorf("command %s has no handler", cmd.Name)
	}

	key := strings.ToLower(cmd.Name)
	if _, exists := r.commands[key]; exists {
		return fmt.Errorf("command %s already registered", cmd.Name)
	}
	r.commands[key] = cmd
	return nil
}

// Resolve looks up the command named by token, e.g. "/PIN".
func (r *Registry) Resolve(token string) (Command, bool) {
	cmd, ok := r.commands[strings.ToLower(token)]
	return cmd, ok
}

// Visible returns the commands granted permits, sorted by name.
func (r *Registry) Visible(granted permission.Flags) []Command {
	visible := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		if permission.Evaluate(granted, cmd.Required) {
			visible = append(visible, cmd)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return strings.ToLower(visible[i].Name) < strings.ToLower(visible[j].Name)
	})
	return visible
}
