package domain

import (
	"encoding/json"
	"time"
)

// StoredState is the free-form legacy save slot kept next to the meta profile.
type StoredState struct {
	Username  string          `json:"username"`
	Level     *int            `json:"level,omitempty"`
	BestScore *int64          `json:"bestScore,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
