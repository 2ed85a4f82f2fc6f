package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/eurofurence/admin-bot-go/internal/audit"
	"github.com/eurofurence/admin-bot-go/internal/badge"
	"github.com/eurofurence/admin-bot-go/internal/model"
)

// RegSysUIDPrefix marks channels whose device has a signed-in attendee.
const RegSysUIDPrefix = "RegSys:"

const locateTitle = "Locate User"

func (d *dispatcher) startLocate(ctx context.Context, s *Session) error {
	return d.askLocate(ctx, s)
}

func (d *dispatcher) askLocate(ctx context.Context, s *Session) error {
	return d.ask(ctx, s, StepLocateRegNo,
		fmt.Sprintf("*%s - Step 1 of 1*\n%s", locateTitle, badgeQuestion),
		func(ctx context.Context, in Input) error { return d.onLocateRegNo(ctx, s, in) },
		optionCancel)
}

func (d *dispatcher) onLocateRegNo(ctx context.Context, s *Session, in Input) error {
	regNo, ok := badge.Parse(in.Text)
	if !ok {
		return d.rejectBadge(ctx, s, in.Text, func(ctx context.Context) error { return d.askLocate(ctx, s) })
	}

	records, err := d.devices.FindAll(ctx, &model.ChannelFilter{
		UIDPrefix: RegSysUIDPrefix,
		UIDSuffix: fmt.Sprintf(":%d", regNo),
	})
	if err != nil {
		return fmt.Errorf("find devices of %d: %w", regNo, err)
	}

	audit.Log(ctx, audit.Event{
		Type:     audit.EventLocate,
		ActorUID: s.User.UID(),
		ChatID:   s.ChatID,
		Details:  map[string]interface{}{"reg_no": regNo, "devices": len(records)},
	})

	if len(records) == 0 {
		return d.reply(ctx, s, fmt.Sprintf("*%s - Result*\nRegNo %d is not logged in on any known device.", locateTitle, regNo))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s - Result*\n", locateTitle)
	fmt.Fprintf(&b, "RegNo *%d* is logged in on *%d* devices:\n", regNo, len(records))
	for _, record := range records {
		fmt.Fprintf(&b, "`%s %s (%s)`\n", record.Platform, strings.Join(record.Topics, ","), formatUTC(record.LastChangeDateTimeUTC))
	}
	return d.reply(ctx, s, b.String())
}
