package meta

// Log Messages
const (
	LogMsgPerkToggled = "Perk loadout changed"
)
