package workflow

import (
	"fmt"
	"time"
)

// RelativeTime renders t relative to now for list views.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "Just now"
	}
	if d < time.Hour {
		return plural(int(d/time.Minute), "min")
	}
	if d < 24*time.Hour {
		return plural(int(d/time.Hour), "hour")
	}
	days := int(d / (24 * time.Hour))
	if days < 7 {
		return plural(days, "day")
	}
	if days < 30 {
		return plural(days/7, "week")
	}
	return t.Format("02 Jan 2006")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
