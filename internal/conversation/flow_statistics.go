package conversation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/eurofurence/admin-bot-go/internal/model"
)

type channelGroup struct {
	platform string
	topics   string
	count    int
}

// groupChannels counts channels per platform and topic set. Groups are ordered
// by size, then platform, then topics.
func groupChannels(records []model.PushNotificationChannel) []channelGroup {
	index := make(map[[2]string]int)
	var groups []channelGroup
	for _, record := range records {
		topics := append([]string(nil), record.Topics...)
		sort.Sort(sort.Reverse(sort.StringSlice(topics)))

		key := [2]string{string(record.Platform), strings.Join(topics, ", ")}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, channelGroup{platform: key[0], topics: key[1]})
		}
		groups[i].count++
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		if groups[i].platform != groups[j].platform {
			return groups[i].platform < groups[j].platform
		}
		return groups[i].topics < groups[j].topics
	})
	return groups
}

func (d *dispatcher) showStatistics(ctx context.Context, s *Session) error {
	records, err := d.devices.FindAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("find devices: %w", err)
	}

	signedIn := 0
	uids := make(map[string]struct{})
	for _, record := range records {
		if len(record.UID) >= len(RegSysUIDPrefix) && strings.EqualFold(record.UID[:len(RegSysUIDPrefix)], RegSysUIDPrefix) {
			signedIn++
			uids[record.UID] = struct{}{}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%d* devices in reach of global / targeted push.\n", len(records))
	for _, group := range groupChannels(records) {
		fmt.Fprintf(&b, "`%5d %s - %s`\n", group.count, group.platform, group.topics)
	}
	fmt.Fprintf(&b, "\n*%d* devices have an user signed in.\n", signedIn)
	fmt.Fprintf(&b, "*%d* unique user ids are present.\n", len(uids))
	return d.reply(ctx, s, b.String())
}
