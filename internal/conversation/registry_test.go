package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurofurence/admin-bot-go/internal/permission"
)

func noop(ctx context.Context, s *Session) error { return nil }

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Command{Name: "/pinInfo", Required: permission.PinQuery, Handler: noop}))

	for _, token := range []string{"/pinInfo", "/pininfo", "/PININFO"} {
		cmd, ok := r.Resolve(token)
		require.True(t, ok, token)
		assert.Equal(t, "/pinInfo", cmd.Name)
	}

	_, ok := r.Resolve("/pin")
	assert.False(t, ok)
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Command{Name: "/pin", Handler: noop}))

	assert.Error(t, r.Register(Command{Name: "/PIN", Handler: noop}))
	assert.Error(t, r.Register(Command{Name: "", Handler: noop}))
	assert.Error(t, r.Register(Command{Name: "/other"}))
}

func TestRegistry_Visible(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Command{Name: "/users", Required: permission.UserAdmin, Handler: noop}))
	require.NoError(t, r.Register(Command{Name: "/Beta", Required: permission.None, Handler: noop}))
	require.NoError(t, r.Register(Command{Name: "/alpha", Required: permission.PinCreate | permission.PinQuery, Handler: noop}))
	require.NoError(t, r.Register(Command{Name: "/locate", Required: permission.Locate, Handler: noop}))

	tests := []struct {
		name     string
		granted  permission.Flags
		expected []string
	}{
		{name: "none", granted: permission.None, expected: []string{"/Beta"}},
		{name: "partial combined flag", granted: permission.PinCreate, expected: []string{"/Beta"}},
		{name: "combined flag", granted: permission.PinCreate | permission.PinQuery | permission.Locate, expected: []string{"/alpha", "/Beta", "/locate"}},
		{name: "everything", granted: permission.UserAdmin | permission.PinCreate | permission.PinQuery | permission.Statistics | permission.Locate, expected: []string{"/alpha", "/Beta", "/locate", "/users"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var names []string
			for _, cmd := range r.Visible(tc.granted) {
				names = append(names, cmd.Name)
			}
			assert.Equal(t, tc.expected, names)
		})
	}
}
