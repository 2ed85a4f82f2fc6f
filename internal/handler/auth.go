package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eurofurence/admin-bot-go/internal/audit"
	apperrors "github.com/eurofurence/admin-bot-go/internal/errors"
	"github.com/eurofurence/admin-bot-go/internal/httputil"
)

type PinAuthenticator interface {
	ValidateAndConsume(ctx context.Context, regNo int, pin string) (string, error)
}

type RegSysPinRequest struct {
	RegNo    int    `json:"regNo"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthenticationResponse struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

type AuthHandler struct {
	pins PinAuthenticator
}

func NewAuthHandler(pins PinAuthenticator) *AuthHandler {
	return &AuthHandler{pins: pins}
}

// RegSysPin signs an attendee in with registration number and an alternative
// PIN issued through the admin bot. The PIN travels in the password field.
func (h *AuthHandler) RegSysPin(w http.ResponseWriter, r *http.Request) {
	var req RegSysPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	switch {
	case req.RegNo <= 0:
		httputil.WriteError(w, apperrors.InvalidInput("regNo", "must be positive"))
		return
	case req.Username == "":
		httputil.WriteError(w, apperrors.MissingRequired("username"))
		return
	case req.Password == "":
		httputil.WriteError(w, apperrors.MissingRequired("password"))
		return
	}

	uid, err := h.pins.ValidateAndConsume(r.Context(), req.RegNo, req.Password)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeInvalidCredentials {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventPinLoginFailure,
				Details: map[string]interface{}{"reg_no": req.RegNo},
			})
		} else {
			log.Error().Err(err).Int("regNo", req.RegNo).Msg("pin login failed")
		}
		httputil.WriteError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventPinLogin,
		ActorUID: uid,
		Details:  map[string]interface{}{"reg_no": req.RegNo},
	})

	httputil.WriteJSON(w, http.StatusOK, AuthenticationResponse{
		UID:      uid,
		Username: fmt.Sprintf("%s (%d)", strings.ToLower(req.Username), req.RegNo),
	})
}
