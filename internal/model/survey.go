package model

import (
	"regexp"
	"strings"
)

// Survey is one named survey inside a category. Question order is
// semantically meaningful: it drives display and export order.
type Survey struct {
	SurveyName string     `json:"survey_name" bson:"survey_name"`
	Questions  []Question `json:"questions" bson:"questions"`
	Published  bool       `json:"published" bson:"published"`
	ShareID    string     `json:"shareId,omitempty" bson:"shareId,omitempty"`
}

// Category groups surveys under one category name. Categories are the
// top-level documents of the survey store.
type Category struct {
	CategoryName string   `json:"category_name" bson:"category_name"`
	Surveys      []Survey `json:"surveys" bson:"surveys"`
}

// SurveyRef is the natural key of a survey.
type SurveyRef struct {
	CategoryName string `json:"category_name" bson:"category_name"`
	SurveyName   string `json:"survey_name" bson:"survey_name"`
}

// Key renders the ref in the "{category}::{survey}" form used to index
// aggregates.
func (r SurveyRef) Key() string {
	return r.CategoryName + "::" + r.SurveyName
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug converts a display name into a URL-safe identifier.
func Slug(s string) string {
	out := slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	out = strings.Trim(out, "-")
	if out == "" {
		return "untitled"
	}
	return out
}
