// Package schema compiles type-specific validation schemas from a question
// list: an author schema for the editing form and an answer schema for the
// public response form. Compilation is pure and deterministic; errors are
// field-scoped and never abort a pass.
package schema

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PSilyDev/survease/internal/model"
)

// FieldError is a validation failure attributable to a specific question
// field. QuestionID is empty for survey-level fields (category, survey name).
type FieldError struct {
	QuestionID string `json:"questionId,omitempty"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

func (e FieldError) Error() string {
	if e.QuestionID == "" {
		return e.Field + ": " + e.Message
	}
	return e.QuestionID + "." + e.Field + ": " + e.Message
}

// AuthorSchema validates a draft survey while it is being edited. Each
// question's structural invariants are checked at that question's path;
// a broken question never blocks validation of its siblings.
type AuthorSchema struct {
	questions []model.Question
}

// CompileAuthorSchema builds the editing schema for a question list. The
// list may be empty; the schema then only enforces the category and survey
// name fields.
func CompileAuthorSchema(questions []model.Question) *AuthorSchema {
	qs := make([]model.Question, len(questions))
	copy(qs, questions)
	return &AuthorSchema{questions: qs}
}

// Validate checks the survey-level name fields plus every compiled
// question's per-type invariants.
func (s *AuthorSchema) Validate(categoryName, surveyName string) []FieldError {
	var errs []FieldError
	if utf8.RuneCountInString(categoryName) < 2 {
		errs = append(errs, FieldError{Field: "categoryName", Message: "Category must be at least 2 characters"})
	}
	if utf8.RuneCountInString(surveyName) < 3 {
		errs = append(errs, FieldError{Field: "surveyName", Message: "Survey name must be at least 3 characters"})
	}
	for _, q := range s.questions {
		errs = append(errs, validateQuestion(q)...)
	}
	return errs
}

// ValidateSubmit is Validate plus the final-save rule that a survey needs
// at least one question. Autosave uses Validate; explicit save uses this.
func (s *AuthorSchema) ValidateSubmit(categoryName, surveyName string) []FieldError {
	errs := s.Validate(categoryName, surveyName)
	if len(s.questions) == 0 {
		errs = append(errs, FieldError{Field: "questions", Message: "Add at least one question"})
	}
	return errs
}

func validateQuestion(q model.Question) []FieldError {
	var errs []FieldError
	if utf8.RuneCountInString(q.Text) < 3 {
		errs = append(errs, FieldError{QuestionID: q.ID, Field: "text", Message: "Question must be at least 3 characters"})
	}
	if !q.Type.Known() {
		errs = append(errs, FieldError{QuestionID: q.ID, Field: "type", Message: "Unknown question type"})
		return errs
	}
	// Cross-type fields are stale-but-harmless: options on a text question
	// or scaleMax on a choice question are ignored, never flagged.
	switch {
	case q.Type.IsChoice():
		if len(q.Options) < 2 {
			errs = append(errs, FieldError{QuestionID: q.ID, Field: "options", Message: "Provide at least 2 options"})
		}
		for _, opt := range q.Options {
			if opt == "" {
				errs = append(errs, FieldError{QuestionID: q.ID, Field: "options", Message: "Options must not be empty"})
				break
			}
		}
	case q.Type == model.QuestionTypeRating:
		if q.ScaleMax == 0 {
			errs = append(errs, FieldError{QuestionID: q.ID, Field: "scaleMax", Message: "Provide a scale maximum (e.g. 5 or 10)"})
		} else if q.ScaleMax < 3 || q.ScaleMax > 10 {
			errs = append(errs, FieldError{QuestionID: q.ID, Field: "scaleMax", Message: "Scale maximum must be between 3 and 10"})
		}
	}
	return errs
}

// AnswerSchema validates a respondent's submitted values against a
// published question list.
type AnswerSchema struct {
	rules []answerRule
}

type answerRule struct {
	question model.Question
	check    func(v interface{}) (interface{}, string)
}

// CompileAnswerSchema builds the respondent schema for a question list.
// Rules dispatch on the question type:
//
//	short_text / long_text  trimmed string
//	single_choice           string (option membership is a UI affordance)
//	multiple_choice         list of strings, min length 1 when required
//	rating                  integer in [1, scaleMax or 10]
//	anything else           accept-any
//
// A required question additionally rejects missing and empty values.
func CompileAnswerSchema(questions []model.Question) *AnswerSchema {
	rules := make([]answerRule, 0, len(questions))
	for _, q := range questions {
		rules = append(rules, answerRule{question: q, check: checkFor(q)})
	}
	return &AnswerSchema{rules: rules}
}

// Questions returns the compiled question list in display order.
func (s *AnswerSchema) Questions() []model.Question {
	qs := make([]model.Question, len(s.rules))
	for i, r := range s.rules {
		qs[i] = r.question
	}
	return qs
}

// Validate checks values keyed by question ID. It returns a coerced copy of
// the accepted values (strings trimmed, ratings as int) together with any
// field errors; errors are keyed by question ID and never abort the pass.
func (s *AnswerSchema) Validate(values map[string]interface{}) (map[string]interface{}, []FieldError) {
	coerced := make(map[string]interface{}, len(values))
	var errs []FieldError
	for _, r := range s.rules {
		q := r.question
		v, present := values[q.ID]
		if !present || v == nil {
			if q.Required {
				errs = append(errs, FieldError{QuestionID: q.ID, Field: "answer", Message: "Required"})
			}
			continue
		}
		out, msg := r.check(v)
		if msg != "" {
			errs = append(errs, FieldError{QuestionID: q.ID, Field: "answer", Message: msg})
			continue
		}
		// Required is layered on top of the type rule: an empty string that
		// passed the type check still fails a required question.
		if q.Required && q.Type != model.QuestionTypeMultipleChoice {
			if str, ok := out.(string); ok && str == "" {
				errs = append(errs, FieldError{QuestionID: q.ID, Field: "answer", Message: "Required"})
				continue
			}
		}
		coerced[q.ID] = out
	}
	return coerced, errs
}

func checkFor(q model.Question) func(v interface{}) (interface{}, string) {
	switch q.Type {
	case model.QuestionTypeShortText, model.QuestionTypeLongText:
		return func(v interface{}) (interface{}, string) {
			str, ok := v.(string)
			if !ok {
				return nil, "Expected text"
			}
			return strings.TrimSpace(str), ""
		}
	case model.QuestionTypeSingleChoice:
		return func(v interface{}) (interface{}, string) {
			str, ok := v.(string)
			if !ok {
				return nil, "Expected a choice"
			}
			return str, ""
		}
	case model.QuestionTypeMultipleChoice:
		min := 0
		if q.Required {
			min = 1
		}
		return func(v interface{}) (interface{}, string) {
			list, msg := stringList(v)
			if msg != "" {
				return nil, msg
			}
			if len(list) < min {
				return nil, fmt.Sprintf("Select at least %d", min)
			}
			return list, ""
		}
	case model.QuestionTypeRating:
		max := q.Scale()
		return func(v interface{}) (interface{}, string) {
			n, ok := intValue(v)
			if !ok {
				return nil, "Expected a whole number"
			}
			if n < 1 || n > max {
				return nil, fmt.Sprintf("Rating must be between 1 and %d", max)
			}
			return n, ""
		}
	default:
		return func(v interface{}) (interface{}, string) {
			return v, ""
		}
	}
}

func stringList(v interface{}) ([]string, string) {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, ""
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			str, ok := item.(string)
			if !ok {
				return nil, "Expected a list of choices"
			}
			out = append(out, str)
		}
		return out, ""
	default:
		return nil, "Expected a list of choices"
	}
}

func intValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
