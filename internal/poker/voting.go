package poker

// VotingSystems maps a system key stored on the game to the fixed ordered
// card deck it offers. Only the key is persisted.
var VotingSystems = map[string][]float64{
	"fibonacci": {0, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89},
	"power":     {0, 1, 2, 4, 8, 16},
}

// CardValues returns the deck for a voting system key, or nil for an
// unknown key.
func CardValues(system string) []float64 {
	return VotingSystems[system]
}

func isValidVoteValue(system string, value float64) bool {
	for _, v := range VotingSystems[system] {
		if v == value {
			return true
		}
	}
	return false
}
