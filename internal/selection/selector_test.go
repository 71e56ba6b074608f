package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"practice-service/internal/models"
)

// fakeSource is an in-memory QuestionSource. It honors exclude lists the
// same way the Mongo repository does with $nin.
type fakeSource struct {
	questions []models.Question
	parts     map[string]*models.PartLookup
	err       error
}

func (f *fakeSource) filter(keep func(models.Question) bool, excludeIDs []string) []models.Question {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []models.Question
	for _, q := range f.questions {
		if !excluded[q.ID] && keep(q) {
			out = append(out, q)
		}
	}
	return out
}

func (f *fakeSource) FindByTopic(_ context.Context, topic string, excludeIDs []string) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.filter(func(q models.Question) bool { return q.Topic == topic }, excludeIDs), nil
}

func (f *fakeSource) FindByChapter(_ context.Context, chapter string, excludeIDs []string) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.filter(func(q models.Question) bool { return q.Chapter == chapter }, excludeIDs), nil
}

func (f *fakeSource) FindByTopicAndDifficulty(_ context.Context, topic, difficulty string, excludeIDs []string) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.filter(func(q models.Question) bool {
		return q.Topic == topic && q.Difficulty == difficulty
	}, excludeIDs), nil
}

func (f *fakeSource) FindPartByID(_ context.Context, partID string) (*models.PartLookup, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.parts[partID], nil
}

// countingGenerator implements TextGenerator and records calls.
type countingGenerator struct {
	calls int
	reply string
	err   error
}

func (g *countingGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func bankQuestion(id, topic, chapter, difficulty string, parts int, diagrams int) models.Question {
	q := models.Question{ID: id, Topic: topic, Chapter: chapter, Difficulty: difficulty}
	for i := 0; i < parts; i++ {
		p := models.Part{
			ID:         fmt.Sprintf("%s_p%d", id, i),
			QuestionID: id,
			Text:       fmt.Sprintf("question %s part %d", id, i),
			Marks:      2,
		}
		if i < diagrams {
			p.Diagrams = []models.Diagram{{ImagePath: "diagrams/fig.png"}}
		}
		q.Parts = append(q.Parts, p)
	}
	return q
}

func wrongOn(partID, questionID, topic, chapter, difficulty string) models.WrongAnswer {
	return models.WrongAnswer{
		PartID:       partID,
		QuestionID:   questionID,
		QuestionText: "original question text",
		Topic:        topic,
		Chapter:      chapter,
		Difficulty:   difficulty,
	}
}

func TestSelectPracticeFromSameTopicPool(t *testing.T) {
	source := &fakeSource{questions: []models.Question{
		bankQuestion("g1", "Geometry", "Shapes", "medium", 2, 0),
		bankQuestion("g2", "Geometry", "Shapes", "medium", 2, 0),
		bankQuestion("g3", "Geometry", "Shapes", "medium", 2, 0),
	}}
	gen := &countingGenerator{reply: "generated"}
	selector := NewSelector(source, NewSyntheticGenerator(gen), 0)

	wrong := []models.WrongAnswer{
		wrongOn("w1_p0", "w1", "Geometry", "Shapes", "easy"),
		wrongOn("w2_p0", "w2", "Geometry", "Shapes", "easy"),
	}

	items, err := selector.SelectPractice(context.Background(), wrong, nil, []string{"w1", "w2"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("Expected 4 practice items, got %d", len(items))
	}
	if gen.calls != 0 {
		t.Errorf("Expected no synthetic generation, got %d calls", gen.calls)
	}
	for _, item := range items {
		if item.Level != models.LevelNext {
			t.Errorf("Expected level %q, got %q", models.LevelNext, item.Level)
		}
		if item.Difficulty != "medium" {
			t.Errorf("Expected difficulty medium, got %q", item.Difficulty)
		}
		if item.Source != models.SourceBank {
			t.Errorf("Expected bank item, got %q", item.Source)
		}
	}
}

func TestSelectPracticeNoDuplicatesOrSelfSuggestion(t *testing.T) {
	// The attempt's own questions are in the pool under the same topic;
	// none of them may come back.
	source := &fakeSource{questions: []models.Question{
		bankQuestion("w1", "Algebra", "Equations", "easy", 1, 0),
		bankQuestion("w2", "Algebra", "Equations", "easy", 1, 0),
		bankQuestion("a1", "Algebra", "Equations", "easy", 2, 0),
		bankQuestion("a2", "Algebra", "Equations", "medium", 1, 0),
		bankQuestion("a3", "Algebra", "Equations", "hard", 1, 0),
	}}
	selector := NewSelector(source, NewSyntheticGenerator(&countingGenerator{reply: "x"}), 0)

	wrong := []models.WrongAnswer{
		wrongOn("w1_p0", "w1", "Algebra", "Equations", "easy"),
		wrongOn("w2_p0", "w2", "Algebra", "Equations", "easy"),
	}

	items, err := selector.SelectPractice(context.Background(), wrong, nil, []string{"w1", "w2"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	for _, item := range items {
		if seen[item.ID] {
			t.Errorf("Duplicate practice id %q in batch", item.ID)
		}
		seen[item.ID] = true
		if strings.HasPrefix(item.ID, "w1_") || strings.HasPrefix(item.ID, "w2_") {
			t.Errorf("Practice item %q suggests a question from the attempt itself", item.ID)
		}
	}
}

func TestSelectPracticeChapterFallback(t *testing.T) {
	// Nothing on the topic, two clean candidates in the chapter: the whole
	// batch must come from the chapter tier, not from synthesis.
	source := &fakeSource{questions: []models.Question{
		bankQuestion("c1", "Trigonometry", "Shapes", "medium", 1, 0),
		bankQuestion("c2", "Trigonometry", "Shapes", "hard", 1, 0),
	}}
	gen := &countingGenerator{reply: "generated"}
	selector := NewSelector(source, NewSyntheticGenerator(gen), 0)

	wrong := []models.WrongAnswer{wrongOn("w1_p0", "w1", "Geometry", "Shapes", "easy")}

	items, err := selector.SelectPractice(context.Background(), wrong, nil, []string{"w1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 practice items, got %d", len(items))
	}
	if gen.calls != 0 {
		t.Errorf("Expected chapter fallback to satisfy the batch, got %d AI calls", gen.calls)
	}
	for _, item := range items {
		if item.Source != models.SourceBank {
			t.Errorf("Expected bank item, got %q", item.Source)
		}
	}
}

func TestSelectPracticeExcludesDiagrammedQuestions(t *testing.T) {
	// The diagrammed question sorts first; the filter must run before
	// truncation so the two clean candidates still fill the batch.
	source := &fakeSource{questions: []models.Question{
		bankQuestion("d1", "Geometry", "Shapes", "medium", 2, 1),
		bankQuestion("g1", "Geometry", "Shapes", "medium", 1, 0),
		bankQuestion("g2", "Geometry", "Shapes", "medium", 1, 0),
	}}
	selector := NewSelector(source, nil, 0)

	wrong := []models.WrongAnswer{wrongOn("w1_p0", "w1", "Geometry", "Shapes", "easy")}

	items, err := selector.SelectPractice(context.Background(), wrong, nil, []string{"w1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 practice items, got %d", len(items))
	}
	for _, item := range items {
		if strings.HasPrefix(item.ID, "d1_") {
			t.Errorf("Practice item %q comes from a diagrammed question", item.ID)
		}
	}
}

func TestSelectPracticeSyntheticFallback(t *testing.T) {
	source := &fakeSource{}
	gen := &countingGenerator{reply: "What is the area of a 3-4-5 triangle?"}
	selector := NewSelector(source, NewSyntheticGenerator(gen), 0)

	wrong := []models.WrongAnswer{wrongOn("w1_p0", "w1", "Geometry", "Shapes", "easy")}

	items, err := selector.SelectPractice(context.Background(), wrong, nil, []string{"w1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 synthetic items, got %d", len(items))
	}
	if gen.calls != 2 {
		t.Errorf("Expected 2 generation calls, got %d", gen.calls)
	}
	for _, item := range items {
		if !strings.HasPrefix(item.ID, "ai_") {
			t.Errorf("Expected ai_ prefixed id, got %q", item.ID)
		}
		if item.Difficulty != "medium" {
			t.Errorf("Expected escalated difficulty medium, got %q", item.Difficulty)
		}
		if item.Level != models.LevelNext {
			t.Errorf("Expected level %q, got %q", models.LevelNext, item.Level)
		}
	}
}

func TestSelectPracticeTemplateOnGeneratorFailure(t *testing.T) {
	source := &fakeSource{}
	gen := &countingGenerator{err: errors.New("quota exceeded")}
	selector := NewSelector(source, NewSyntheticGenerator(gen), 0)

	wrong := []models.WrongAnswer{
		wrongOn("w1_p0", "w1", "Geometry", "Shapes", "hard"),
		wrongOn("w2_p0", "w2", "Algebra", "Equations", "easy"),
	}

	items, err := selector.SelectPractice(context.Background(), wrong, nil, []string{"w1", "w2"})
	if err != nil {
		t.Fatalf("Expected graceful degradation, got error: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("Expected 4 template items, got %d", len(items))
	}
	for _, item := range items {
		if !strings.HasPrefix(item.ID, "template_") {
			t.Errorf("Expected template_ prefixed id, got %q", item.ID)
		}
		if item.Source != models.SourceTemplate {
			t.Errorf("Expected template source, got %q", item.Source)
		}
	}
	// hard has no higher rung
	if items[0].Difficulty != "hard" {
		t.Errorf("Expected hard to stay hard, got %q", items[0].Difficulty)
	}
	if items[2].Difficulty != "medium" {
		t.Errorf("Expected easy to escalate to medium, got %q", items[2].Difficulty)
	}
}

func TestSelectPracticeShortBatchWithoutGenerator(t *testing.T) {
	source := &fakeSource{}
	selector := NewSelector(source, nil, 0)

	wrong := []models.WrongAnswer{wrongOn("w1_p0", "w1", "Geometry", "Shapes", "easy")}

	items, err := selector.SelectPractice(context.Background(), wrong, nil, []string{"w1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected an empty batch with no corpus and no generator, got %d items", len(items))
	}
}

func TestSelectPracticeForCorrectAnswers(t *testing.T) {
	source := &fakeSource{
		questions: []models.Question{
			bankQuestion("r1", "Geometry", "Shapes", "easy", 1, 0),
		},
		parts: map[string]*models.PartLookup{
			"c1_p0": {
				Part:       models.Part{ID: "c1_p0", QuestionID: "c1", Text: "solved question", Marks: 2},
				QuestionID: "c1",
				Topic:      "Geometry",
				Chapter:    "Shapes",
				Difficulty: "easy",
			},
		},
	}
	selector := NewSelector(source, nil, 0)

	items, err := selector.SelectPractice(context.Background(), nil, []string{"c1_p0"}, []string{"c1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 reinforcement item, got %d", len(items))
	}
	if items[0].Level != models.LevelSame {
		t.Errorf("Expected level %q, got %q", models.LevelSame, items[0].Level)
	}
	if items[0].ID != "r1_p0" {
		t.Errorf("Expected item drawn from the bank, got %q", items[0].ID)
	}
}

func TestSelectPracticeCorrectAnswerSyntheticStaysAtLevel(t *testing.T) {
	source := &fakeSource{
		parts: map[string]*models.PartLookup{
			"c1_p0": {
				Part:       models.Part{ID: "c1_p0", QuestionID: "c1", Text: "solved question", Marks: 2},
				QuestionID: "c1",
				Topic:      "Geometry",
				Chapter:    "Shapes",
				Difficulty: "easy",
			},
		},
	}
	gen := &countingGenerator{reply: "another easy one"}
	selector := NewSelector(source, NewSyntheticGenerator(gen), 0)

	items, err := selector.SelectPractice(context.Background(), nil, []string{"c1_p0"}, []string{"c1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Difficulty != "easy" {
		t.Errorf("Expected same difficulty easy, got %q", items[0].Difficulty)
	}
	if items[0].Level != models.LevelSame {
		t.Errorf("Expected level %q, got %q", models.LevelSame, items[0].Level)
	}
}

func TestSelectPracticeSkipsStaleCorrectPart(t *testing.T) {
	selector := NewSelector(&fakeSource{}, nil, 0)

	items, err := selector.SelectPractice(context.Background(), nil, []string{"gone_p0"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected stale part to be skipped, got %d items", len(items))
	}
}

func TestSelectPracticeRepositoryErrorAborts(t *testing.T) {
	source := &fakeSource{err: errors.New("connection reset")}
	selector := NewSelector(source, NewSyntheticGenerator(&countingGenerator{reply: "x"}), 0)

	wrong := []models.WrongAnswer{wrongOn("w1_p0", "w1", "Geometry", "Shapes", "easy")}

	items, err := selector.SelectPractice(context.Background(), wrong, nil, nil)
	if err == nil {
		t.Fatal("Expected repository error to abort the batch")
	}
	if items != nil {
		t.Errorf("Expected no partial result, got %d items", len(items))
	}
}
