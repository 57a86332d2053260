package progression

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// Encode serializes p at the current schema version.
func Encode(p *domain.PlayerProgression) ([]byte, error) {
	p.SchemaVersion = domain.ProgressionSchemaVersion
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode progression: %w", err)
	}
	return data, nil
}

// Decode parses a stored progression document of any known schema version,
// migrates it forward and normalizes it. The username key always wins over
// the stored username.
func Decode(raw []byte, username string, now time.Time) (*domain.PlayerProgression, error) {
	var header struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("%w: progression document: %v", domain.ErrInvalidInput, err)
	}

	var p *domain.PlayerProgression
	switch {
	case header.SchemaVersion == 0:
		doc := map[string]any{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: legacy progression document: %v", domain.ErrInvalidInput, err)
		}
		p = migrateV0(doc, username, now)
	case header.SchemaVersion == domain.ProgressionSchemaVersion:
		p = &domain.PlayerProgression{}
		if err := json.Unmarshal(raw, p); err != nil {
			return nil, fmt.Errorf("%w: progression document: %v", domain.ErrInvalidInput, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported progression schema version %d", domain.ErrInvalidInput, header.SchemaVersion)
	}

	p.Username = username
	Normalize(p)
	return p, nil
}

// migrateV0 reads the untyped documents written before schema versioning.
// Fields of the wrong type keep their defaults.
func migrateV0(doc map[string]any, username string, now time.Time) *domain.PlayerProgression {
	p := NewProfile(username, now)

	if v, ok := finite(doc["level"]); ok {
		p.Level = clampInt(int(v), domain.MinLevel, domain.MaxLevel)
	}
	if v, ok := finite(doc["xp"]); ok {
		p.XP = max(0, int(v))
	}
	if v, ok := finite(doc["currency"]); ok {
		p.Currency = max(0, int(v))
	}
	if v, ok := finite(doc["streak"]); ok {
		p.Streak = max(0, int(v))
	}
	if v, ok := finite(doc["lifetimeRuns"]); ok {
		p.LifetimeRuns = max(0, int(v))
	}
	if v, ok := finite(doc["lifetimeBestScore"]); ok {
		p.LifetimeBestScore = max(0, int64(v))
	}
	if s, ok := doc["lastPlayedDay"].(string); ok {
		p.LastPlayedDayKey = s
	}
	if ms, ok := finite(doc["updatedAt"]); ok {
		p.UpdatedAt = time.UnixMilli(int64(ms)).UTC()
	}

	if ids, ok := doc["unlockedPerkIds"].([]any); ok {
		p.UnlockedPerkIDs = p.UnlockedPerkIDs[:0]
		for _, id := range ids {
			if s, ok := id.(string); ok {
				p.UnlockedPerkIDs = append(p.UnlockedPerkIDs, s)
			}
		}
	}

	if items, ok := doc["equippedPerks"].([]any); ok {
		for _, item := range items {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			id, ok := rec["id"].(string)
			if !ok {
				continue
			}
			level, ok := finite(rec["level"])
			if !ok {
				continue
			}
			p.EquippedPerks = append(p.EquippedPerks, domain.EquippedPerk{PerkID: id, Level: int(level)})
		}
	}

	if quests, ok := doc["questProgress"].(map[string]any); ok {
		for id, value := range quests {
			rec, ok := value.(map[string]any)
			if !ok {
				continue
			}
			key, okKey := rec["key"].(string)
			progress, okProgress := finite(rec["progress"])
			claimed, okClaimed := rec["claimed"].(bool)
			if !okKey || !okProgress || !okClaimed {
				continue
			}
			p.QuestProgress[id] = domain.QuestProgress{
				CycleKey: key,
				Progress: int64(progress),
				Claimed:  claimed,
			}
		}
	}

	if claims, ok := doc["challengeClaims"].(map[string]any); ok {
		for key, value := range claims {
			if b, ok := value.(bool); ok {
				p.ChallengeClaims[key] = b
			}
		}
	}

	return p
}

// maxStoredNumber bounds legacy numbers so integer conversion stays defined.
const maxStoredNumber = 1 << 53

func finite(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return math.Max(-maxStoredNumber, math.Min(math.Trunc(f), maxStoredNumber)), true
}
