package models

import "time"

type Option struct {
	Label string `bson:"label" json:"label"`
	Text  string `bson:"text" json:"text"`
}

// Diagram is a figure the extraction pipeline cropped out of the source PDF.
// Bounding box coordinates are in page-image pixels.
type Diagram struct {
	ImagePath   string `bson:"image_path" json:"image_path"`
	Description string `bson:"description" json:"description"`
	X           int    `bson:"x" json:"x"`
	Y           int    `bson:"y" json:"y"`
	Width       int    `bson:"width" json:"width"`
	Height      int    `bson:"height" json:"height"`
}

// Part is a single gradeable sub-question within a Question. CorrectOption
// is an index into Options; nil means the part is open-ended and has no
// single correct answer.
type Part struct {
	ID            string    `bson:"id" json:"id"`
	QuestionID    string    `bson:"question_id" json:"question_id"`
	Text          string    `bson:"text" json:"text"`
	Options       []Option  `bson:"options" json:"options"`
	CorrectOption *int      `bson:"correct_option,omitempty" json:"correct_option,omitempty"`
	Marks         int       `bson:"marks" json:"marks"`
	Explanation   string    `bson:"explanation,omitempty" json:"explanation,omitempty"`
	Hints         []string  `bson:"hints,omitempty" json:"hints,omitempty"`
	Diagrams      []Diagram `bson:"diagrams,omitempty" json:"diagrams,omitempty"`
}

type Question struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	JobID      string    `bson:"job_id" json:"job_id"`
	Topic      string    `bson:"topic" json:"topic"`
	Chapter    string    `bson:"chapter" json:"chapter"`
	Difficulty string    `bson:"difficulty" json:"difficulty"`
	Parts      []Part    `bson:"parts" json:"parts"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// HasDiagram reports whether any part of the question carries a diagram.
// Practice material is delivered as plain text, so a single diagrammed part
// disqualifies the whole question from the practice pool.
func (q *Question) HasDiagram() bool {
	for _, p := range q.Parts {
		if len(p.Diagrams) > 0 {
			return true
		}
	}
	return false
}

// TextParts returns the parts that carry no diagrams.
func (q *Question) TextParts() []Part {
	parts := make([]Part, 0, len(q.Parts))
	for _, p := range q.Parts {
		if len(p.Diagrams) == 0 {
			parts = append(parts, p)
		}
	}
	return parts
}

// PartLookup is a part joined with its owning question's classification,
// the shape both grading and practice search need.
type PartLookup struct {
	Part       Part   `json:"part"`
	QuestionID string `json:"question_id"`
	Topic      string `json:"topic"`
	Chapter    string `json:"chapter"`
	Difficulty string `json:"difficulty"`
}

// CorrectLabel resolves the label of the correct option, or "" when the
// part is open-ended or the stored index is out of range.
func (p *Part) CorrectLabel() string {
	if p.CorrectOption == nil {
		return ""
	}
	idx := *p.CorrectOption
	if idx < 0 || idx >= len(p.Options) {
		return ""
	}
	return p.Options[idx].Label
}
