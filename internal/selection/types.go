package selection

import (
	"context"

	"practice-service/internal/models"
)

// QuestionSource is the read capability the selector consumes from the
// question bank. Exclude lists hold question ids. Returned questions carry
// their parts so diagram presence can be derived; FindPartByID returns
// (nil, nil) for a stale id rather than an error.
type QuestionSource interface {
	FindByTopic(ctx context.Context, topic string, excludeIDs []string) ([]models.Question, error)
	FindByChapter(ctx context.Context, chapter string, excludeIDs []string) ([]models.Question, error)
	FindByTopicAndDifficulty(ctx context.Context, topic, difficulty string, excludeIDs []string) ([]models.Question, error)
	FindPartByID(ctx context.Context, partID string) (*models.PartLookup, error)
}

// TextGenerator is the narrow generation capability behind the synthetic
// fallback. Implemented by ai.Client.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Practice item targets per evaluated answer.
const (
	perWrongTarget   = 2
	perCorrectTarget = 1
)

// batch is the accumulator for one SelectPractice call: the growing
// exclusion set and the items assembled so far. It is local to the call,
// so concurrent selections never share state.
type batch struct {
	exclude map[string]bool
	items   []models.PracticeQuestion
	aiCalls int
}

func newBatch(excludeQuestionIDs []string) *batch {
	b := &batch{
		exclude: make(map[string]bool, len(excludeQuestionIDs)),
		items:   []models.PracticeQuestion{},
	}
	for _, id := range excludeQuestionIDs {
		b.exclude[id] = true
	}
	return b
}

func (b *batch) excludeList() []string {
	ids := make([]string, 0, len(b.exclude))
	for id := range b.exclude {
		ids = append(ids, id)
	}
	return ids
}

// consume flattens diagram-free candidates into practice items, up to
// need, and returns how many were taken. The diagram filter runs over the
// whole candidate list before any truncation, so a prefix of diagrammed
// questions cannot starve the result. A consumed question id goes into the
// exclusion set immediately.
func (b *batch) consume(candidates []models.Question, need int, level string) int {
	taken := 0
	for _, q := range candidates {
		if taken == need {
			break
		}
		if b.exclude[q.ID] || q.HasDiagram() {
			continue
		}
		parts := q.TextParts()
		if len(parts) == 0 {
			continue
		}
		b.exclude[q.ID] = true
		for _, p := range parts {
			if taken == need {
				break
			}
			b.items = append(b.items, models.PracticeQuestion{
				ID:           p.ID,
				Topic:        q.Topic,
				QuestionText: p.Text,
				Difficulty:   q.Difficulty,
				Level:        level,
				Marks:        p.Marks,
				Explanation:  p.Explanation,
				Source:       models.SourceBank,
			})
			taken++
		}
	}
	return taken
}
