package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eurofurence/admin-bot-go/internal/audit"
	"github.com/eurofurence/admin-bot-go/internal/badge"
)

const (
	badgeQuestion   = "What's the attendees _registration number (including the letter at the end)_ on the badge?"
	invalidBadgeFmt = "_%s is not a valid badge number - checksum letter is missing or wrong._"
	utcLayout       = "2006-01-02 15:04:05"
)

func formatUTC(t time.Time) string {
	return t.UTC().Format(utcLayout)
}

// rejectBadge explains why raw is not a badge number and asks again.
func (d *dispatcher) rejectBadge(ctx context.Context, s *Session, raw string, retry func(context.Context) error) error {
	if err := d.reply(ctx, s, fmt.Sprintf(invalidBadgeFmt, badge.Normalize(raw))); err != nil {
		return err
	}
	return retry(ctx)
}

// pinCreation collects badge number and nickname before a PIN is issued.
type pinCreation struct {
	d *dispatcher
	s *Session

	regNo        int
	regNoOnBadge string
	nameOnBadge  string
}

const pinCreationTitle = "PIN Creation"

func (d *dispatcher) startPinCreation(ctx context.Context, s *Session) error {
	f := &pinCreation{d: d, s: s}
	return f.askRegNo(ctx)
}

func (f *pinCreation) askRegNo(ctx context.Context) error {
	return f.d.ask(ctx, f.s, StepPinRegNo,
		fmt.Sprintf("*%s - Step 1 of 3*\n%s", pinCreationTitle, badgeQuestion),
		f.onRegNo, optionCancel)
}

func (f *pinCreation) onRegNo(ctx context.Context, in Input) error {
	regNo, ok := badge.Parse(in.Text)
	if !ok {
		return f.d.rejectBadge(ctx, f.s, in.Text, f.askRegNo)
	}

	f.regNo = regNo
	f.regNoOnBadge = badge.Normalize(in.Text)
	return f.askName(ctx)
}

func (f *pinCreation) askName(ctx context.Context) error {
	return f.d.ask(ctx, f.s, StepPinName,
		fmt.Sprintf("*%s - Step 2 of 3*\nOn badge no %d, what is the _nickname_ printed on the badge (not the real name)?", pinCreationTitle, f.regNo),
		f.onName, optionCancel)
}

func (f *pinCreation) onName(ctx context.Context, in Input) error {
	name := strings.TrimSpace(in.Text)
	if name == "" {
		if err := f.d.reply(ctx, f.s, "_The nickname must not be empty._"); err != nil {
			return err
		}
		return f.askName(ctx)
	}

	f.nameOnBadge = name
	return f.askConfirm(ctx)
}

func (f *pinCreation) askConfirm(ctx context.Context) error {
	question := fmt.Sprintf("*%s - Step 3 of 3*\nPlease confirm:\n\nThe badge no. is *%s*\n\nThe nickname on the badge is *%s*"+
		"\n\n*You have verified the identity of the attendee by matching their real name on badge against a legal form of identification.*",
		pinCreationTitle, f.regNoOnBadge, f.nameOnBadge)
	return f.d.ask(ctx, f.s, StepPinConfirm, question, f.onConfirm, optionConfirm, optionRestart, optionCancel)
}

func (f *pinCreation) onConfirm(ctx context.Context, in Input) error {
	if in.Is(SentinelRestart) {
		return f.askRegNo(ctx)
	}
	if !in.Is(SentinelConfirm) {
		return f.askConfirm(ctx)
	}

	requester := f.s.User.UID()
	pin, err := f.d.pins.RequestPin(ctx, f.nameOnBadge, f.regNoOnBadge, requester)
	if err != nil {
		return fmt.Errorf("request pin for %s: %w", f.regNoOnBadge, err)
	}

	audit.Log(ctx, audit.Event{
		Type:     audit.EventPinIssue,
		ActorUID: requester,
		ChatID:   f.s.ChatID,
		Details: map[string]interface{}{
			"reg_no":        pin.RegNo,
			"name_on_badge": pin.NameOnBadge,
		},
	})

	var b strings.Builder
	fmt.Fprintf(&b, "*%s - Completed*\n", pinCreationTitle)
	fmt.Fprintf(&b, "Registration Number: *%d*\n", pin.RegNo)
	fmt.Fprintf(&b, "Name on Badge: *%s*\n", pin.NameOnBadge)
	fmt.Fprintf(&b, "PIN: *%s*\n\n", pin.Pin)
	fmt.Fprintf(&b, "User can login to the Eurofurence Apps (mobile devices and web) with their registration number (*%d*) and PIN (*%s*) as their password. They can type in any username, it does not matter.\n", pin.RegNo, pin.Pin)
	fmt.Fprintf(&b, "\n_Generation/Access of this PIN by %s has been recorded._\n", requester)
	return f.d.reply(ctx, f.s, b.String())
}

func (d *dispatcher) startPinInfo(ctx context.Context, s *Session) error {
	return d.askPinInfo(ctx, s)
}

func (d *dispatcher) askPinInfo(ctx context.Context, s *Session) error {
	return d.ask(ctx, s, StepPinInfoRegNo,
		"*PIN Info - Step 1 of 1*\n"+badgeQuestion,
		func(ctx context.Context, in Input) error { return d.onPinInfoRegNo(ctx, s, in) },
		optionCancel)
}

func (d *dispatcher) onPinInfoRegNo(ctx context.Context, s *Session, in Input) error {
	regNo, ok := badge.Parse(in.Text)
	if !ok {
		return d.rejectBadge(ctx, s, in.Text, func(ctx context.Context) error { return d.askPinInfo(ctx, s) })
	}

	record, err := d.pins.GetPin(ctx, regNo)
	if err != nil {
		return fmt.Errorf("get pin for %d: %w", regNo, err)
	}

	audit.Log(ctx, audit.Event{
		Type:     audit.EventPinQuery,
		ActorUID: s.User.UID(),
		ChatID:   s.ChatID,
		Details:  map[string]interface{}{"reg_no": regNo, "found": record != nil},
	})

	if record == nil {
		return d.reply(ctx, s, "Sorry, there is no pin record for RegNo "+strconv.Itoa(regNo)+".")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "RegNo: *%d*\n", record.RegNo)
	fmt.Fprintf(&b, "NameOnBadge: *%s*\n", record.NameOnBadge)
	fmt.Fprintf(&b, "Pin: *%s*\n", record.Pin)
	b.WriteString("\n```\nAll times are UTC.\n\n")
	fmt.Fprintf(&b, "Issued on %s by %s\n\n", formatUTC(record.IssuedDateTimeUTC), record.IssuedByUID)
	b.WriteString("Issue Log:\n")
	for _, entry := range record.IssueLog {
		fmt.Fprintf(&b, "- %s %s\n", formatUTC(entry.RequestDateTimeUTC), entry.RequesterUID)
	}
	b.WriteString("\nUsed for login at:\n")
	for _, consumed := range record.PinConsumptionDatesUTC {
		fmt.Fprintf(&b, "- %s\n", formatUTC(consumed))
	}
	b.WriteString("```")
	return d.reply(ctx, s, b.String())
}
