package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"practice-service/internal/models"
	"practice-service/internal/selection"
)

// ResultStore persists scored attempts.
type ResultStore interface {
	Create(ctx context.Context, result *models.AttemptResult) error
}

// EventSink hands completed attempts to the external report/email
// renderer. May be nil when messaging is not configured.
type EventSink interface {
	Publish(eventType string, payload interface{}) error
}

type AttemptSubmission struct {
	PartIDs []string          `json:"part_ids" binding:"required"`
	Answers map[string]string `json:"answers"`
}

type AttemptResponse struct {
	Result   *models.AttemptResult     `json:"result"`
	Practice []models.PracticeQuestion `json:"practice"`
}

// AttemptService runs the submission workflow: evaluate, select practice
// material, persist the score, and emit the completion event.
type AttemptService struct {
	Evaluator *EvaluationService
	Selector  *selection.Selector
	Results   ResultStore
	Publisher EventSink
}

func NewAttemptService(evaluator *EvaluationService, selector *selection.Selector, results ResultStore, publisher EventSink) *AttemptService {
	return &AttemptService{
		Evaluator: evaluator,
		Selector:  selector,
		Results:   results,
		Publisher: publisher,
	}
}

func (s *AttemptService) Submit(ctx context.Context, userID string, sub AttemptSubmission) (*AttemptResponse, error) {
	summary, err := s.Evaluator.Evaluate(ctx, sub.PartIDs, sub.Answers)
	if err != nil {
		return nil, err
	}

	practice, err := s.Selector.SelectPractice(ctx, summary.WrongAnswers, summary.CorrectPartIDs, summary.QuestionIDs)
	if err != nil {
		// The learner still gets a scored result when recommendations
		// cannot be assembled; only the practice list degrades.
		log.Printf("practice selection failed for user %s: %v", userID, err)
		practice = []models.PracticeQuestion{}
	}

	result := &models.AttemptResult{
		ID:             uuid.NewString(),
		UserID:         userID,
		Outcomes:       summary.Outcomes,
		TotalMarks:     summary.TotalMarks,
		Score:          summary.Score,
		Percentage:     summary.Percentage,
		CorrectCount:   summary.CorrectCount,
		IncorrectCount: summary.IncorrectCount,
		CreatedAt:      time.Now(),
	}
	if err := s.Results.Create(ctx, result); err != nil {
		return nil, err
	}

	if s.Publisher != nil {
		if err := s.Publisher.Publish("practice.attempt.completed", map[string]interface{}{
			"user_id":  userID,
			"result":   result,
			"practice": practice,
		}); err != nil {
			log.Printf("failed to publish attempt completion for user %s: %v", userID, err)
		}
	}

	return &AttemptResponse{Result: result, Practice: practice}, nil
}
