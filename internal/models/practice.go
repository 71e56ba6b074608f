package models

// Level tags on a practice question. Items drawn for a correct answer stay
// at the learner's level; items drawn for a wrong answer escalate.
const (
	LevelSame = "same_level"
	LevelNext = "next_level"
)

// Where a practice question came from.
const (
	SourceBank     = "bank"
	SourceAI       = "ai"
	SourceTemplate = "template"
)

// PracticeQuestion is the ephemeral output of the selector. ID is either an
// existing part id or a synthesized id prefixed "ai_" / "template_".
type PracticeQuestion struct {
	ID           string `json:"id"`
	Topic        string `json:"topic"`
	QuestionText string `json:"question_text"`
	Difficulty   string `json:"difficulty"`
	Level        string `json:"level"`
	Marks        int    `json:"marks"`
	Explanation  string `json:"explanation,omitempty"`
	Source       string `json:"source"`
}
