package progression

import (
	"time"

	"github.com/osse101/RiftRunner_Go/internal/catalog"
	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// RolloverQuests resets every quest whose stored cycle key is not the current one.
func RolloverQuests(p *domain.PlayerProgression, now time.Time) {
	if p.QuestProgress == nil {
		p.QuestProgress = map[string]domain.QuestProgress{}
	}
	for _, tmpl := range catalog.Quests() {
		key := cycle.QuestCycleKey(tmpl.Scope, now)
		if current, ok := p.QuestProgress[tmpl.ID]; !ok || current.CycleKey != key {
			p.QuestProgress[tmpl.ID] = domain.QuestProgress{CycleKey: key}
		}
	}
}

// ApplyRunToQuests advances every quest by one completed run and claims the
// ones that reach their target. It returns the currency earned and the ids claimed.
func ApplyRunToQuests(p *domain.PlayerProgression, now time.Time, adjustedScore int64) (int, []string) {
	RolloverQuests(p, now)

	bonus := 0
	completed := []string{}
	for _, tmpl := range catalog.Quests() {
		qp := p.QuestProgress[tmpl.ID]
		if tmpl.Metric == domain.QuestMetricScore {
			qp.Progress += adjustedScore
		} else {
			qp.Progress++
		}
		if qp.Progress >= tmpl.Target && !qp.Claimed {
			qp.Claimed = true
			bonus += tmpl.RewardCurrency
			completed = append(completed, tmpl.ID)
		}
		p.QuestProgress[tmpl.ID] = qp
	}
	return bonus, completed
}

// QuestSnapshot lists the quests for the current cycle with the player's progress.
func QuestSnapshot(p *domain.PlayerProgression, now time.Time) []domain.PlayerQuest {
	RolloverQuests(p, now)

	out := make([]domain.PlayerQuest, 0, len(p.QuestProgress))
	for _, tmpl := range catalog.Quests() {
		qp := p.QuestProgress[tmpl.ID]
		completed := qp.Progress >= tmpl.Target
		out = append(out, domain.PlayerQuest{
			ID:             tmpl.ID,
			Scope:          tmpl.Scope,
			Title:          tmpl.Title,
			Description:    tmpl.Description,
			Target:         tmpl.Target,
			Progress:       qp.Progress,
			RewardCurrency: tmpl.RewardCurrency,
			Completed:      completed,
			Claimable:      completed && !qp.Claimed,
		})
	}
	return out
}
