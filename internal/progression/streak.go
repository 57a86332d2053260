package progression

import (
	"time"

	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// ApplyStreak updates the daily play streak for a run completed at now.
// Repeated runs on the same UTC day leave the streak unchanged.
func ApplyStreak(p *domain.PlayerProgression, now time.Time) {
	today := cycle.DayKey(now)
	yesterday, _ := cycle.AddDays(today, -1)

	switch p.LastPlayedDayKey {
	case "":
		p.Streak = 1
	case today:
		p.Streak = max(1, p.Streak)
	case yesterday:
		p.Streak++
	default:
		p.Streak = 1
	}
	p.LastPlayedDayKey = today
}
