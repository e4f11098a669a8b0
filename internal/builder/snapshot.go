package builder

import "github.com/PSilyDev/survease/internal/model"

// Draft is the in-progress survey the reconciler watches.
type Draft struct {
	CategoryName string
	SurveyName   string
	Questions    []model.Question
}

// Snapshot is the normalized form of a draft used for change detection.
// Volatile and identity-only fields are excluded, so a re-render that only
// reshuffles question IDs does not count as a semantic change.
type Snapshot struct {
	CategoryName string
	SurveyName   string
	Questions    []QuestionSnapshot
}

// QuestionSnapshot carries the semantic content of one question.
type QuestionSnapshot struct {
	Text     string
	Type     model.QuestionType
	Required bool
	Options  []string
	ScaleMax int
}

// NewSnapshot normalizes a draft.
func NewSnapshot(d Draft) Snapshot {
	qs := make([]QuestionSnapshot, 0, len(d.Questions))
	for _, q := range d.Questions {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		qs = append(qs, QuestionSnapshot{
			Text:     q.Text,
			Type:     q.Type,
			Required: q.Required,
			Options:  opts,
			ScaleMax: q.ScaleMax,
		})
	}
	return Snapshot{
		CategoryName: d.CategoryName,
		SurveyName:   d.SurveyName,
		Questions:    qs,
	}
}

// Equal compares two snapshots field by field.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.CategoryName != o.CategoryName || s.SurveyName != o.SurveyName {
		return false
	}
	if len(s.Questions) != len(o.Questions) {
		return false
	}
	for i, q := range s.Questions {
		if !q.equal(o.Questions[i]) {
			return false
		}
	}
	return true
}

func (q QuestionSnapshot) equal(o QuestionSnapshot) bool {
	if q.Text != o.Text || q.Type != o.Type || q.Required != o.Required || q.ScaleMax != o.ScaleMax {
		return false
	}
	if len(q.Options) != len(o.Options) {
		return false
	}
	for i, opt := range q.Options {
		if opt != o.Options[i] {
			return false
		}
	}
	return true
}
