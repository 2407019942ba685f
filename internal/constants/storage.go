package constants

// Generation 3 (current) storage keys
const (
	KeySettings       = "settings"
	KeyHamsters       = "hamsters"
	KeyCurrentHamster = "current_hamster"
)

// Legacy storage keys. Generation 1 used the data and settings keys only;
// generation 2 added the hamster list and the current-hamster pointer.
const (
	LegacyKeyData           = "cheese_tracker_data"
	LegacyKeySettings       = "cheese_tracker_settings"
	LegacyKeyHamsters       = "cheese_tracker_hamsters"
	LegacyKeyCurrentHamster = "cheese_tracker_current_hamster"
)

// LegacyKeys lists every key a pre-generation-3 install may have written.
var LegacyKeys = []string{
	LegacyKeyData,
	LegacyKeySettings,
	LegacyKeyHamsters,
	LegacyKeyCurrentHamster,
}

const (
	// UnassignedGroup collects generation 2 entries that carried no hamsterId
	UnassignedGroup = "unassigned"
	UnassignedName  = "Unassigned"

	// DefaultHamsterName is used when a legacy profile or an import has no name
	DefaultHamsterName = "My Hamster"

	DefaultTheme = "cherry"
)

// QuarantinePrefix is prepended to the key of a persisted document that
// could not be decoded, so migration can move it aside instead of deleting it.
const QuarantinePrefix = "quarantine."
