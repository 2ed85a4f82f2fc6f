package conversation

import "strings"

// Sentinel is a reserved control token, told apart from free text once when
// the input arrives.
type Sentinel int

const (
	SentinelNone Sentinel = iota
	SentinelCancel
	SentinelConfirm
	SentinelRestart
	SentinelBack
	SentinelListUsers
	SentinelEditUser
)

var sentinelTokens = map[string]Sentinel{
	"/cancel":    SentinelCancel,
	"*confirm":   SentinelConfirm,
	"*restart":   SentinelRestart,
	"*back":      SentinelBack,
	"*listusers": SentinelListUsers,
	"*edituser":  SentinelEditUser,
}

func (s Sentinel) String() string {
	for token, sentinel := range sentinelTokens {
		if sentinel == s {
			return token
		}
	}
	return "none"
}

// Input is one answer from the user: the raw text and, when the text is a
// reserved token, its sentinel.
type Input struct {
	Text     string
	Sentinel Sentinel
}

func ParseInput(raw string) Input {
	return Input{
		Text:     raw,
		Sentinel: sentinelTokens[strings.ToLower(strings.TrimSpace(raw))],
	}
}

// Is reports whether the input is the given sentinel.
func (in Input) Is(s Sentinel) bool {
	return in.Sentinel == s
}

func firstToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var (
	optionCancel    = Option{Label: "Cancel", Value: "/cancel"}
	optionConfirm   = Option{Label: "Confirm", Value: "*confirm"}
	optionRestart   = Option{Label: "Restart", Value: "*restart"}
	optionBack      = Option{Label: "Back", Value: "*back"}
	optionListUsers = Option{Label: "List Users", Value: "*listUsers"}
	optionEditUser  = Option{Label: "Edit User", Value: "*editUser"}
	optionAdd       = Option{Label: "Add", Value: "add"}
	optionRemove    = Option{Label: "Remove", Value: "remove"}
)
