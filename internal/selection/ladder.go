package selection

import "strings"

// difficultyLadders maps a difficulty to its escalation path. The first
// element is the next rung up; hard has no higher rung and stays put.
var difficultyLadders = map[string][]string{
	"easy":   {"medium", "hard"},
	"medium": {"hard"},
	"hard":   {"hard"},
}

// Ladder returns the escalation path for a difficulty. Unrecognized
// difficulty strings fall back to the easy ladder.
func Ladder(difficulty string) []string {
	if ladder, ok := difficultyLadders[strings.ToLower(strings.TrimSpace(difficulty))]; ok {
		return ladder
	}
	return difficultyLadders["easy"]
}

// NextDifficulty returns the difficulty one rung above the given one.
func NextDifficulty(difficulty string) string {
	return Ladder(difficulty)[0]
}
