package models

import "time"

// WrongAnswer carries the question metadata the practice selector needs to
// search for substitute material.
type WrongAnswer struct {
	PartID       string `bson:"part_id" json:"part_id"`
	QuestionID   string `bson:"question_id" json:"question_id"`
	QuestionText string `bson:"question_text" json:"question_text"`
	Topic        string `bson:"topic" json:"topic"`
	Chapter      string `bson:"chapter" json:"chapter"`
	Difficulty   string `bson:"difficulty" json:"difficulty"`
}

// PartOutcome records how a single submitted part was graded.
type PartOutcome struct {
	PartID       string `bson:"part_id" json:"part_id"`
	Submitted    string `bson:"submitted" json:"submitted"`
	CorrectLabel string `bson:"correct_label,omitempty" json:"correct_label,omitempty"`
	IsCorrect    bool   `bson:"is_correct" json:"is_correct"`
	Marks        int    `bson:"marks" json:"marks"`
	MarksAwarded int    `bson:"marks_awarded" json:"marks_awarded"`
}

// AttemptSummary is the evaluator's output for one submission. QuestionIDs
// lists every question touched by the attempt, wrong or correct; the
// selector seeds its exclusion set from it.
type AttemptSummary struct {
	CorrectPartIDs []string      `json:"correct_part_ids"`
	WrongAnswers   []WrongAnswer `json:"wrong_answers"`
	Outcomes       []PartOutcome `json:"outcomes"`
	QuestionIDs    []string      `json:"question_ids"`
	TotalMarks     int           `json:"total_marks"`
	Score          int           `json:"score"`
	Percentage     float64       `json:"percentage"`
	CorrectCount   int           `json:"correct_count"`
	IncorrectCount int           `json:"incorrect_count"`
}

// AttemptResult is the persisted record of a scored attempt. The practice
// list itself is ephemeral and travels in the completion event only.
type AttemptResult struct {
	ID             string        `bson:"_id,omitempty" json:"id"`
	UserID         string        `bson:"user_id" json:"user_id"`
	Outcomes       []PartOutcome `bson:"outcomes" json:"outcomes"`
	TotalMarks     int           `bson:"total_marks" json:"total_marks"`
	Score          int           `bson:"score" json:"score"`
	Percentage     float64       `bson:"percentage" json:"percentage"`
	CorrectCount   int           `bson:"correct_count" json:"correct_count"`
	IncorrectCount int           `bson:"incorrect_count" json:"incorrect_count"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
}
