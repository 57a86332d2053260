package progression

import (
	"fmt"
	"slices"

	"github.com/osse101/RiftRunner_Go/internal/catalog"
	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// SyncUnlocks grants every perk available at the current level, drops unknown
// ids and re-normalizes the equipped loadout. It reports whether p changed.
func SyncUnlocks(p *domain.PlayerProgression) bool {
	seen := make(map[string]bool, len(p.UnlockedPerkIDs))
	unlocked := make([]string, 0, len(p.UnlockedPerkIDs))
	add := func(id string) {
		if seen[id] {
			return
		}
		if _, ok := catalog.Perk(id); !ok {
			return
		}
		seen[id] = true
		unlocked = append(unlocked, id)
	}
	for _, id := range p.UnlockedPerkIDs {
		add(id)
	}
	for _, id := range catalog.PerksUnlockedAt(p.Level) {
		add(id)
	}
	equipped := NormalizeEquipped(unlocked, p.EquippedPerks)
	changed := !slices.Equal(p.UnlockedPerkIDs, unlocked) || !slices.Equal(p.EquippedPerks, equipped)
	p.UnlockedPerkIDs = unlocked
	p.EquippedPerks = equipped
	return changed
}

// NormalizeEquipped keeps unlocked, known, distinct perks in slot order,
// clamps their levels and caps the loadout at domain.MaxEquippedPerks.
func NormalizeEquipped(unlocked []string, equipped []domain.EquippedPerk) []domain.EquippedPerk {
	allowed := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		allowed[id] = true
	}

	next := make([]domain.EquippedPerk, 0, domain.MaxEquippedPerks)
	used := map[string]bool{}
	for _, perk := range equipped {
		def, ok := catalog.Perk(perk.PerkID)
		if !ok || !allowed[perk.PerkID] || used[perk.PerkID] {
			continue
		}
		used[perk.PerkID] = true
		next = append(next, domain.EquippedPerk{
			PerkID: perk.PerkID,
			Level:  clampInt(perk.Level, 1, def.MaxLevel),
		})
		if len(next) >= domain.MaxEquippedPerks {
			break
		}
	}
	return next
}

// TogglePerk equips perkID at level 1, or unequips it when already equipped.
func TogglePerk(p *domain.PlayerProgression, perkID string) error {
	if _, ok := catalog.Perk(perkID); !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownPerk, perkID)
	}
	SyncUnlocks(p)
	if !p.HasUnlocked(perkID) {
		return fmt.Errorf("%w: perk %s", domain.ErrPerkLocked, perkID)
	}

	for i, perk := range p.EquippedPerks {
		if perk.PerkID == perkID {
			p.EquippedPerks = append(p.EquippedPerks[:i], p.EquippedPerks[i+1:]...)
			return nil
		}
	}

	if len(p.EquippedPerks) >= domain.MaxEquippedPerks {
		return domain.ErrPerkLimit
	}
	p.EquippedPerks = append(p.EquippedPerks, domain.EquippedPerk{PerkID: perkID, Level: 1})
	p.EquippedPerks = NormalizeEquipped(p.UnlockedPerkIDs, p.EquippedPerks)
	return nil
}

// SelectPerks resolves the perks a run uses: the requested ids that are
// unlocked when a request is given, otherwise the equipped loadout. A request
// gets no more slots than the loadout.
func SelectPerks(p *domain.PlayerProgression, requested []string) []string {
	if requested == nil {
		return p.EquippedPerkIDs()
	}
	selected := make([]string, 0, len(requested))
	seen := map[string]bool{}
	for _, id := range requested {
		if seen[id] || !p.HasUnlocked(id) {
			continue
		}
		seen[id] = true
		selected = append(selected, id)
		if len(selected) >= domain.MaxEquippedPerks {
			break
		}
	}
	return selected
}
