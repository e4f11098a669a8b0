package model

import (
	"encoding/json"
	"time"
)

// AnswerValues holds every submitted value for one question. The wire shape
// is always a list, even for single-valued questions; an empty list denotes
// "unanswered". Stored documents occasionally carry a bare scalar or null
// where a list is expected, so decoding tolerates both.
type AnswerValues []interface{}

func (v *AnswerValues) UnmarshalJSON(data []byte) error {
	var list []interface{}
	if err := json.Unmarshal(data, &list); err == nil {
		*v = list
		return nil
	}
	var single interface{}
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == nil {
		*v = AnswerValues{}
		return nil
	}
	*v = AnswerValues{single}
	return nil
}

// QuestionAnswer pairs a question's display text with its submitted values.
type QuestionAnswer struct {
	Question string       `json:"question" bson:"question"`
	Answer   AnswerValues `json:"answer" bson:"answer"`
}

// ResponseDocument is one submitted survey response. Documents are
// immutable once stored; aggregation only reads them.
type ResponseDocument struct {
	ID           string           `json:"id" bson:"id"`
	Name         string           `json:"name,omitempty" bson:"name,omitempty"`
	Email        string           `json:"email,omitempty" bson:"email,omitempty"`
	CategoryName string           `json:"category_name" bson:"category_name"`
	SurveyName   string           `json:"survey_name" bson:"survey_name"`
	Answers      []QuestionAnswer `json:"answers" bson:"answers"`
	CreatedAt    time.Time        `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

// Ref returns the survey this response belongs to.
func (d ResponseDocument) Ref() SurveyRef {
	return SurveyRef{CategoryName: d.CategoryName, SurveyName: d.SurveyName}
}
