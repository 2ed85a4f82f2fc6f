package conversation

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/eurofurence/admin-bot-go/internal/model"
	"github.com/eurofurence/admin-bot-go/internal/permission"
)

type sentMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Options   []Option
}

// fakeTransport records every message and keyboard retraction.
type fakeTransport struct {
	mu        sync.Mutex
	nextID    int
	sent      []sentMessage
	retracted  []int
	sendErr    error
	retractErr error
}

func (t *fakeTransport) SendMessage(ctx context.Context, chatID int64, text string, options []Option) (MessageRef, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sendErr != nil {
		return MessageRef{}, t.sendErr
	}
	t.nextID++
	t.sent = append(t.sent, sentMessage{ChatID: chatID, MessageID: t.nextID, Text: text, Options: options})
	return MessageRef{ChatID: chatID, MessageID: t.nextID}, nil
}

func (t *fakeTransport) RetractKeyboard(ctx context.Context, chatID int64, messageID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.retracted = append(t.retracted, messageID)
	return t.retractErr
}

func (t *fakeTransport) last() sentMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.sent) == 0 {
		return sentMessage{}
	}
	return t.sent[len(t.sent)-1]
}

func (t *fakeTransport) texts() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.sent))
	for i, m := range t.sent {
		out[i] = m.Text
	}
	return out
}

func (t *fakeTransport) retractedIDs() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.retracted...)
}

type mockACLStore struct {
	mock.Mock
}

func (m *mockACLStore) GetPermissions(ctx context.Context, username string) (permission.Flags, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(permission.Flags), args.Error(1)
}

func (m *mockACLStore) SetPermissions(ctx context.Context, username string, flags permission.Flags) error {
	args := m.Called(ctx, username, flags)
	return args.Error(0)
}

func (m *mockACLStore) ListUsers(ctx context.Context) ([]UserACL, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]UserACL), args.Error(1)
}

type mockPinProvider struct {
	mock.Mock
}

func (m *mockPinProvider) RequestPin(ctx context.Context, nameOnBadge, regNoOnBadge, requesterUID string) (*model.AlternativePin, error) {
	args := m.Called(ctx, nameOnBadge, regNoOnBadge, requesterUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AlternativePin), args.Error(1)
}

func (m *mockPinProvider) GetPin(ctx context.Context, regNo int) (*model.AlternativePin, error) {
	args := m.Called(ctx, regNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AlternativePin), args.Error(1)
}

type mockDeviceRegistry struct {
	mock.Mock
}

func (m *mockDeviceRegistry) FindAll(ctx context.Context, filter *model.ChannelFilter) ([]model.PushNotificationChannel, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PushNotificationChannel), args.Error(1)
}

type testEnv struct {
	transport *fakeTransport
	acl       *mockACLStore
	pins      *mockPinProvider
	devices   *mockDeviceRegistry
	d         *dispatcher
	s         *Session
}

func newTestEnv() *testEnv {
	env := &testEnv{
		transport: &fakeTransport{},
		acl:       &mockACLStore{},
		pins:      &mockPinProvider{},
		devices:   &mockDeviceRegistry{},
	}
	e := NewEngine(env.transport, env.acl, env.pins, env.devices)
	env.d = e.d
	env.s = newSession(100)
	env.s.User = Identity{ID: 7, Username: "alice"}
	return env
}

// grant makes the session user hold flags for every dispatch.
func (env *testEnv) grant(flags permission.Flags) {
	env.acl.On("GetPermissions", mock.Anything, "alice").Return(flags, nil)
}

func (env *testEnv) send(inputs ...string) error {
	for _, in := range inputs {
		if err := env.d.process(context.Background(), env.s, in); err != nil {
			return err
		}
	}
	return nil
}

func optionValues(options []Option) []string {
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = o.Value
	}
	return values
}
