package selection

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"practice-service/internal/models"
)

// Marks assigned to generated items; the bank has no marks value for them.
const syntheticMarks = 2

// SyntheticGenerator produces a practice question when the bank is
// exhausted. Any generation failure is absorbed into a deterministic
// template item so the learner's report is never blocked on the provider.
type SyntheticGenerator struct {
	client TextGenerator
}

func NewSyntheticGenerator(client TextGenerator) *SyntheticGenerator {
	return &SyntheticGenerator{client: client}
}

// Synthetic asks the model for one similar-but-different question at the
// target difficulty. A failed or empty reply falls straight to the
// template; there is no retry.
func (g *SyntheticGenerator) Synthetic(ctx context.Context, meta models.WrongAnswer, targetDifficulty string) models.PracticeQuestion {
	text, err := g.client.Generate(ctx, buildPrompt(meta, targetDifficulty))
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			log.Printf("synthetic generation failed for topic %q: %v", meta.Topic, err)
		}
		return templateQuestion(meta.Topic, targetDifficulty)
	}
	return models.PracticeQuestion{
		ID:           "ai_" + uuid.NewString(),
		Topic:        meta.Topic,
		QuestionText: strings.TrimSpace(text),
		Difficulty:   targetDifficulty,
		Marks:        syntheticMarks,
		Source:       models.SourceAI,
	}
}

func buildPrompt(meta models.WrongAnswer, targetDifficulty string) string {
	return fmt.Sprintf(
		"Create one %s-difficulty practice question on the topic %q (chapter %q). "+
			"It must be similar to, but different from, the following question, and "+
			"solvable in 2-3 steps. Return only the question text.\n\n%s",
		targetDifficulty, meta.Topic, meta.Chapter, meta.QuestionText)
}

func templateQuestion(topic, difficulty string) models.PracticeQuestion {
	return models.PracticeQuestion{
		ID:           "template_" + uuid.NewString(),
		Topic:        topic,
		QuestionText: fmt.Sprintf("Practice %s at %s level - solve problems similar to the ones you found challenging.", topic, difficulty),
		Difficulty:   difficulty,
		Marks:        syntheticMarks,
		Source:       models.SourceTemplate,
	}
}
