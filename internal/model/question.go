package model

import "github.com/google/uuid"

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeShortText      QuestionType = "short_text"
	QuestionTypeLongText       QuestionType = "long_text"
	QuestionTypeSingleChoice   QuestionType = "single_choice"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeRating         QuestionType = "rating"
)

// Known reports whether t is one of the closed set of question types.
func (t QuestionType) Known() bool {
	switch t {
	case QuestionTypeShortText, QuestionTypeLongText, QuestionTypeSingleChoice,
		QuestionTypeMultipleChoice, QuestionTypeRating:
		return true
	}
	return false
}

// IsChoice reports whether the type carries an options list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeSingleChoice || t == QuestionTypeMultipleChoice
}

// Question is one survey question and its type-specific constraints.
// Fields irrelevant to the current Type may remain populated after a type
// switch; consumers dispatch on Type and never read cross-type fields.
type Question struct {
	ID       string       `json:"id" bson:"id"`
	Text     string       `json:"text" bson:"text"`
	Type     QuestionType `json:"type" bson:"type"`
	Required bool         `json:"required" bson:"required"`
	Options  []string     `json:"options,omitempty" bson:"options,omitempty"`   // single_choice / multiple_choice
	ScaleMax int          `json:"scaleMax,omitempty" bson:"scaleMax,omitempty"` // rating; 0 means unset
}

// NewQuestion creates a question of the given type with a fresh unique ID
// and per-type defaults.
func NewQuestion(t QuestionType) Question {
	q := Question{
		ID:   uuid.New().String(),
		Type: t,
	}
	if t.IsChoice() {
		q.Options = []string{"Option 1", "Option 2"}
	}
	if t == QuestionTypeRating {
		q.ScaleMax = 5
	}
	return q
}

// Scale returns the rating upper bound, defaulting to 10 when unset.
func (q Question) Scale() int {
	if q.ScaleMax <= 0 {
		return 10
	}
	return q.ScaleMax
}
