package audit

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventPinIssue        EventType = "pin_issue"
	EventPinQuery        EventType = "pin_query"
	EventPinLogin        EventType = "pin_login"
	EventPinLoginFailure EventType = "pin_login_failure"
	EventACLChange       EventType = "acl_change"
	EventLocate          EventType = "locate"
	EventRateLimitExceed EventType = "rate_limit_exceeded"
	EventAuthFailure     EventType = "auth_failure"
)

type Event struct {
	Type      EventType
	ActorUID  string
	ChatID    int64
	IP        string
	UserAgent string
	Details   map[string]interface{}
}

// Log writes the event as one structured record and returns its ULID so
// callers can reference it in replies or follow-up logs.
func Log(ctx context.Context, event Event) string {
	id := ulid.Make().String()

	e := log.Info().
		Str("audit", "admin").
		Str("event_id", id).
		Str("event_type", string(event.Type))

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		e = e.Str("request_id", reqID)
	}
	if event.ActorUID != "" {
		e = e.Str("actor_uid", event.ActorUID)
	}
	if event.ChatID != 0 {
		e = e.Int64("chat_id", event.ChatID)
	}
	if event.IP != "" {
		e = e.Str("ip", event.IP)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", event.UserAgent)
	}

	e.Fields(event.Details).Timestamp().Msg("audit event")
	return id
}

// LogFromRequest fills in the caller address. chi's RealIP middleware has
// already replaced RemoteAddr with the forwarded client address.
func LogFromRequest(r *http.Request, event Event) string {
	event.IP = remoteHost(r.RemoteAddr)
	event.UserAgent = r.UserAgent()
	return Log(r.Context(), event)
}

func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
