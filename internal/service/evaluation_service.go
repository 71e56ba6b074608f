package service

import (
	"context"
	"log"
	"strings"

	"practice-service/internal/models"
)

// PartFinder is the lookup capability grading needs. FindPartByID returns
// (nil, nil) for a stale part id.
type PartFinder interface {
	FindPartByID(ctx context.Context, partID string) (*models.PartLookup, error)
}

// EvaluationService grades a submission against the question bank. It is a
// pure query-and-compute step; it keeps no state between calls.
type EvaluationService struct {
	Parts PartFinder
}

func NewEvaluationService(parts PartFinder) *EvaluationService {
	return &EvaluationService{Parts: parts}
}

// Evaluate grades each submitted part. Parts that no longer exist in the
// bank are skipped without error and without counting toward totals;
// historical attempts are expected to carry stale references. An
// open-ended part (no correct-option index) is always scored wrong.
func (s *EvaluationService) Evaluate(ctx context.Context, partIDs []string, submitted map[string]string) (*models.AttemptSummary, error) {
	summary := &models.AttemptSummary{
		CorrectPartIDs: []string{},
		WrongAnswers:   []models.WrongAnswer{},
		Outcomes:       []models.PartOutcome{},
	}
	seenQuestions := make(map[string]bool)

	for _, partID := range partIDs {
		lookup, err := s.Parts.FindPartByID(ctx, partID)
		if err != nil {
			return nil, err
		}
		if lookup == nil {
			log.Printf("skipping stale part reference %q", partID)
			continue
		}
		part := lookup.Part

		correctLabel := part.CorrectLabel()
		answer := submitted[partID]
		isCorrect := correctLabel != "" && normalizeAnswer(answer) == normalizeAnswer(correctLabel)

		summary.TotalMarks += part.Marks
		awarded := 0
		if isCorrect {
			awarded = part.Marks
			summary.Score += part.Marks
			summary.CorrectCount++
			summary.CorrectPartIDs = append(summary.CorrectPartIDs, partID)
		} else {
			summary.IncorrectCount++
			summary.WrongAnswers = append(summary.WrongAnswers, models.WrongAnswer{
				PartID:       partID,
				QuestionID:   lookup.QuestionID,
				QuestionText: part.Text,
				Topic:        lookup.Topic,
				Chapter:      lookup.Chapter,
				Difficulty:   lookup.Difficulty,
			})
		}
		summary.Outcomes = append(summary.Outcomes, models.PartOutcome{
			PartID:       partID,
			Submitted:    answer,
			CorrectLabel: correctLabel,
			IsCorrect:    isCorrect,
			Marks:        part.Marks,
			MarksAwarded: awarded,
		})
		if !seenQuestions[lookup.QuestionID] {
			seenQuestions[lookup.QuestionID] = true
			summary.QuestionIDs = append(summary.QuestionIDs, lookup.QuestionID)
		}
	}

	// Guard the all-stale-parts case; never divide by zero.
	if summary.TotalMarks > 0 {
		summary.Percentage = float64(summary.Score) / float64(summary.TotalMarks) * 100
	}
	return summary, nil
}

// normalizeAnswer makes the comparison tolerant of case and surrounding
// whitespace in both the stored label and the submission.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
