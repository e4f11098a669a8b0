package service

import (
	"context"
	"errors"
	"testing"

	"github.com/PSilyDev/survease/internal/model"
)

func publishedSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{categories: []model.Category{{
		CategoryName: "HR",
		Surveys: []model.Survey{{
			SurveyName: "Exit",
			Published:  true,
			Questions: []model.Question{
				{ID: "q1", Text: "Your name", Type: model.QuestionTypeShortText, Required: true},
				{ID: "q2", Text: "Teams you worked with", Type: model.QuestionTypeMultipleChoice, Options: []string{"Sales", "Support"}},
				{ID: "q3", Text: "Rate us", Type: model.QuestionTypeRating, ScaleMax: 5},
			},
		}},
	}}}
}

func TestResponseServiceSubmitStoresNormalizedAnswers(t *testing.T) {
	responses := &fakeResponseRepo{}
	agg := &fakeAggregateCache{}
	svc := NewResponseService(publishedSurveyRepo(), responses, agg)

	doc := &model.ResponseDocument{
		CategoryName: "HR",
		SurveyName:   "Exit",
		Answers: []model.QuestionAnswer{
			{Question: "Rate us", Answer: model.AnswerValues{float64(4)}},
			{Question: "Your name", Answer: model.AnswerValues{"  Ada  "}},
		},
	}
	fieldErrs, err := svc.Submit(context.Background(), doc)
	if err != nil || len(fieldErrs) != 0 {
		t.Fatalf("submit failed: %v %v", fieldErrs, err)
	}

	if doc.ID == "" {
		t.Fatal("no id assigned")
	}
	if len(responses.docs) != 1 {
		t.Fatalf("stored %d docs", len(responses.docs))
	}
	stored := responses.docs[0]
	// answers follow question order with one entry per question
	if len(stored.Answers) != 3 {
		t.Fatalf("stored %d answers, want 3", len(stored.Answers))
	}
	if stored.Answers[0].Question != "Your name" || stored.Answers[0].Answer[0] != "Ada" {
		t.Fatalf("first answer %+v, want trimmed name", stored.Answers[0])
	}
	if len(stored.Answers[1].Answer) != 0 {
		t.Fatalf("unanswered question stored as %+v, want empty", stored.Answers[1])
	}
	if stored.Answers[2].Answer[0] != 4 {
		t.Fatalf("rating stored as %#v, want int 4", stored.Answers[2].Answer[0])
	}
	if agg.invalidated != 1 {
		t.Fatalf("aggregate cache invalidated %d times, want 1", agg.invalidated)
	}
}

func TestResponseServiceSubmitValidationErrors(t *testing.T) {
	responses := &fakeResponseRepo{}
	svc := NewResponseService(publishedSurveyRepo(), responses, &fakeAggregateCache{})

	doc := &model.ResponseDocument{
		CategoryName: "HR",
		SurveyName:   "Exit",
		Answers: []model.QuestionAnswer{
			{Question: "Rate us", Answer: model.AnswerValues{float64(9)}},
		},
	}
	fieldErrs, err := svc.Submit(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(fieldErrs) == 0 {
		t.Fatal("out-of-range rating and missing required answer accepted")
	}
	if len(responses.docs) != 0 {
		t.Fatal("invalid submission stored")
	}
}

func TestResponseServiceSubmitGuards(t *testing.T) {
	repo := publishedSurveyRepo()
	repo.categories[0].Surveys[0].Published = false
	svc := NewResponseService(repo, &fakeResponseRepo{}, &fakeAggregateCache{})

	doc := &model.ResponseDocument{CategoryName: "HR", SurveyName: "Exit"}
	if _, err := svc.Submit(context.Background(), doc); !errors.Is(err, ErrNotPublished) {
		t.Fatalf("err = %v, want ErrNotPublished", err)
	}

	doc = &model.ResponseDocument{CategoryName: "HR", SurveyName: "Missing"}
	if _, err := svc.Submit(context.Background(), doc); !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("err = %v, want ErrSurveyNotFound", err)
	}
}

func TestResponseServiceSubmitIgnoresStaleAnswers(t *testing.T) {
	responses := &fakeResponseRepo{}
	svc := NewResponseService(publishedSurveyRepo(), responses, &fakeAggregateCache{})

	doc := &model.ResponseDocument{
		CategoryName: "HR",
		SurveyName:   "Exit",
		Answers: []model.QuestionAnswer{
			{Question: "Your name", Answer: model.AnswerValues{"Ada"}},
			{Question: "A deleted question", Answer: model.AnswerValues{"stale"}},
		},
	}
	fieldErrs, err := svc.Submit(context.Background(), doc)
	if err != nil || len(fieldErrs) != 0 {
		t.Fatalf("submit failed: %v %v", fieldErrs, err)
	}
	for _, qa := range responses.docs[0].Answers {
		if qa.Question == "A deleted question" {
			t.Fatal("stale answer stored")
		}
	}
}

func TestResponseServiceDeleteInvalidatesAggregate(t *testing.T) {
	responses := &fakeResponseRepo{docs: []model.ResponseDocument{{ID: "r1"}}}
	agg := &fakeAggregateCache{}
	svc := NewResponseService(publishedSurveyRepo(), responses, agg)

	if err := svc.Delete(context.Background(), "r1"); err != nil {
		t.Fatal(err)
	}
	if len(responses.docs) != 0 {
		t.Fatal("response not deleted")
	}
	if agg.invalidated != 1 {
		t.Fatalf("aggregate cache invalidated %d times, want 1", agg.invalidated)
	}
}
