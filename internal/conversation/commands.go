package conversation

import "github.com/eurofurence/admin-bot-go/internal/permission"

func (d *dispatcher) commands() []Command {
	return []Command{
		{
			Name:        "/pin",
			Description: "Create an alternative password for an attendee to login",
			Required:    permission.PinCreate,
			Handler:     d.startPinCreation,
		},
		{
			Name:        "/pinInfo",
			Description: "Show the pin & issue log for a given registration number",
			Required:    permission.PinQuery,
			Handler:     d.startPinInfo,
		},
		{
			Name:        "/users",
			Description: "Manage Users",
			Required:    permission.UserAdmin,
			Handler:     d.startUserAdmin,
		},
		{
			Name:        "/statistics",
			Description: "Show some statistics",
			Required:    permission.Statistics,
			Handler:     d.showStatistics,
		},
		{
			Name:        "/locate",
			Description: "Figure out if a given regNo is signed in on any device",
			Required:    permission.Locate,
			Handler:     d.startLocate,
		},
	}
}
