package msgview

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tOgg1/uplink/internal/models"
)

// recentWindow is how long a timestamp is shown in relative form.
const recentWindow = 24 * time.Hour

// absoluteLayout formats timestamps older than recentWindow.
const absoluteLayout = "Jan 2, 15:04"

// Group returns a copy of msgs with Position set for each run of
// consecutive messages from the same sender.
func Group(msgs []models.Message) []models.Message {
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	for i := range out {
		first := i == 0 || out[i-1].Sender != out[i].Sender
		last := i == len(out)-1 || out[i+1].Sender != out[i].Sender
		out[i].Position = models.Position{
			First:  first,
			Middle: !first && !last,
			Last:   last,
		}
	}
	return out
}

// DisplayTime formats at relative to now: "3 minutes ago" inside the last
// day, "Jan 2, 15:04" otherwise.
func DisplayTime(at, now time.Time) string {
	if at.IsZero() {
		return ""
	}
	age := now.Sub(at)
	if age >= 0 && age < recentWindow {
		return humanize.RelTime(at, now, "ago", "from now")
	}
	return at.Local().Format(absoluteLayout)
}
