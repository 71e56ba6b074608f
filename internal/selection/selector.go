package selection

import (
	"context"
	"fmt"
	"log"
	"time"

	"practice-service/internal/models"
)

// Selector assembles practice questions for an evaluated attempt by
// cascading through bank searches and falling back to AI generation when
// the bank is exhausted.
type Selector struct {
	source    QuestionSource
	generator *SyntheticGenerator
	aiDelay   time.Duration
}

// NewSelector builds a selector. generator may be nil when no AI provider
// is configured; the selector then returns short batches instead of
// synthesizing. aiDelay is the courtesy pause between successive
// generation calls within one batch.
func NewSelector(source QuestionSource, generator *SyntheticGenerator, aiDelay time.Duration) *Selector {
	return &Selector{source: source, generator: generator, aiDelay: aiDelay}
}

// tierFunc is one rung of the search cascade: it returns candidate
// questions for its criteria. The caller applies the diagram filter,
// truncation and exclusion bookkeeping uniformly via batch.consume.
type tierFunc func(ctx context.Context) ([]models.Question, error)

// SelectPractice returns up to 2 practice items per wrong answer and 1 per
// correct part. The exclusion set is seeded with excludeQuestionIDs (every
// question id the attempt touched) plus the wrong answers' question ids,
// so nothing the learner just saw is suggested back, and no question is
// used twice in one batch. Bank errors abort the whole call; generation
// errors never do.
func (s *Selector) SelectPractice(ctx context.Context, wrong []models.WrongAnswer, correctPartIDs []string, excludeQuestionIDs []string) ([]models.PracticeQuestion, error) {
	b := newBatch(excludeQuestionIDs)
	for _, w := range wrong {
		b.exclude[w.QuestionID] = true
	}

	for _, w := range wrong {
		if err := s.fillForWrong(ctx, b, w); err != nil {
			return nil, err
		}
	}
	for _, partID := range correctPartIDs {
		if err := s.fillForCorrect(ctx, b, partID); err != nil {
			return nil, err
		}
	}
	return b.items, nil
}

// fillForWrong runs the wrong-answer cascade: same topic at any
// difficulty, then same chapter, then same topic at the original
// difficulty, then synthesis one rung up the ladder.
func (s *Selector) fillForWrong(ctx context.Context, b *batch, w models.WrongAnswer) error {
	tiers := []tierFunc{
		func(ctx context.Context) ([]models.Question, error) {
			return s.source.FindByTopic(ctx, w.Topic, b.excludeList())
		},
		func(ctx context.Context) ([]models.Question, error) {
			return s.source.FindByChapter(ctx, w.Chapter, b.excludeList())
		},
		func(ctx context.Context) ([]models.Question, error) {
			return s.source.FindByTopicAndDifficulty(ctx, w.Topic, w.Difficulty, b.excludeList())
		},
	}

	need, err := s.runTiers(ctx, b, tiers, perWrongTarget, models.LevelNext)
	if err != nil {
		return err
	}
	return s.fillSynthetic(ctx, b, w, NextDifficulty(w.Difficulty), models.LevelNext, need)
}

// fillForCorrect runs the shorter reinforcement cascade for a part the
// learner got right: same topic at any difficulty, then same chapter held
// to the part's own difficulty, then synthesis at that same difficulty.
func (s *Selector) fillForCorrect(ctx context.Context, b *batch, partID string) error {
	lookup, err := s.source.FindPartByID(ctx, partID)
	if err != nil {
		return fmt.Errorf("practice search failed: %w", err)
	}
	if lookup == nil {
		// Stale part reference; the attempt predates a bank edit.
		return nil
	}
	b.exclude[lookup.QuestionID] = true

	tiers := []tierFunc{
		func(ctx context.Context) ([]models.Question, error) {
			return s.source.FindByTopic(ctx, lookup.Topic, b.excludeList())
		},
		func(ctx context.Context) ([]models.Question, error) {
			candidates, err := s.source.FindByChapter(ctx, lookup.Chapter, b.excludeList())
			if err != nil {
				return nil, err
			}
			return filterDifficulty(candidates, lookup.Difficulty), nil
		},
	}

	need, err := s.runTiers(ctx, b, tiers, perCorrectTarget, models.LevelSame)
	if err != nil {
		return err
	}
	meta := models.WrongAnswer{
		PartID:       lookup.Part.ID,
		QuestionID:   lookup.QuestionID,
		QuestionText: lookup.Part.Text,
		Topic:        lookup.Topic,
		Chapter:      lookup.Chapter,
		Difficulty:   lookup.Difficulty,
	}
	return s.fillSynthetic(ctx, b, meta, lookup.Difficulty, models.LevelSame, need)
}

// runTiers walks the cascade in order, short-circuiting once the target
// count is met. It returns the remaining shortfall.
func (s *Selector) runTiers(ctx context.Context, b *batch, tiers []tierFunc, need int, level string) (int, error) {
	for _, tier := range tiers {
		if need == 0 {
			break
		}
		candidates, err := tier(ctx)
		if err != nil {
			return need, fmt.Errorf("practice search failed: %w", err)
		}
		need -= b.consume(candidates, need, level)
	}
	return need, nil
}

// fillSynthetic covers the remaining shortfall with generated items, one
// call per missing item. The pause between successive calls is a
// rate-limit courtesy, not a retry backoff.
func (s *Selector) fillSynthetic(ctx context.Context, b *batch, meta models.WrongAnswer, difficulty, level string, need int) error {
	if need == 0 {
		return nil
	}
	if s.generator == nil {
		log.Printf("practice pool exhausted for topic %q and no generator configured, returning %d short", meta.Topic, need)
		return nil
	}
	for ; need > 0; need-- {
		if b.aiCalls > 0 && s.aiDelay > 0 {
			time.Sleep(s.aiDelay)
		}
		b.aiCalls++
		item := s.generator.Synthetic(ctx, meta, difficulty)
		item.Level = level
		b.items = append(b.items, item)
	}
	return nil
}

func filterDifficulty(questions []models.Question, difficulty string) []models.Question {
	kept := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if q.Difficulty == difficulty {
			kept = append(kept, q)
		}
	}
	return kept
}
