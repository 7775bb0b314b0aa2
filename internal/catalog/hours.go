package catalog

import (
	"strings"
	"time"
)

// openAt parses an hours string like "08:00 às 18:00" and reports whether
// t falls inside the window. "Fechado", empty or unparsable strings mean
// closed.
func openAt(hours string, t time.Time) bool {
	hours = strings.TrimSpace(hours)
	if hours == "" || strings.EqualFold(hours, "fechado") {
		return false
	}

	parts := strings.Split(hours, " às ")
	if len(parts) != 2 {
		return false
	}

	start, ok1 := minutesOfDay(parts[0])
	end, ok2 := minutesOfDay(parts[1])
	if !ok1 || !ok2 {
		return false
	}

	now := t.Hour()*60 + t.Minute()
	return now >= start && now < end
}

func minutesOfDay(s string) (int, bool) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return parsed.Hour()*60 + parsed.Minute(), true
}
