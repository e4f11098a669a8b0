package analytics

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/PSilyDev/survease/internal/model"
)

// CSVFilter restricts an export to one category and/or survey by exact
// match; empty fields match everything.
type CSVFilter struct {
	Category string
	Survey   string
}

func (f *CSVFilter) matches(doc model.ResponseDocument) bool {
	if f == nil {
		return true
	}
	if f.Category != "" && doc.CategoryName != f.Category {
		return false
	}
	if f.Survey != "" && doc.SurveyName != f.Survey {
		return false
	}
	return true
}

// ToCSV renders responses as CSV. Columns are the union of all question
// texts across the filtered set, in first-seen order, after the fixed
// id,name,email,category,survey prefix. Multiple values for one question
// join with " | "; an unanswered question renders as an empty field. Rows
// preserve the input response order, and fields containing a comma, quote
// or newline are quoted with internal quotes doubled.
func ToCSV(docs []model.ResponseDocument, filter *CSVFilter) (string, error) {
	filtered := make([]model.ResponseDocument, 0, len(docs))
	for _, doc := range docs {
		if filter.matches(doc) {
			filtered = append(filtered, doc)
		}
	}

	seen := map[string]bool{}
	var questions []string
	for _, doc := range filtered {
		for _, qa := range doc.Answers {
			if !seen[qa.Question] {
				seen[qa.Question] = true
				questions = append(questions, qa.Question)
			}
		}
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := append([]string{"id", "name", "email", "category", "survey"}, questions...)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, doc := range filtered {
		byQuestion := make(map[string]string, len(doc.Answers))
		for _, qa := range doc.Answers {
			byQuestion[qa.Question] = joinValues(qa.Answer)
		}
		row := make([]string, 0, len(header))
		row = append(row, doc.ID, doc.Name, doc.Email, doc.CategoryName, doc.SurveyName)
		for _, q := range questions {
			row = append(row, byQuestion[q])
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

func joinValues(values model.AnswerValues) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, bucketString(v))
	}
	return strings.Join(parts, " | ")
}
