package service

import (
	"context"
	"errors"
	"testing"

	"github.com/PSilyDev/survease/internal/model"
	"github.com/PSilyDev/survease/internal/repository"
)

func TestSurveyServiceCreateValidatesNames(t *testing.T) {
	svc := NewSurveyService(&fakeSurveyRepo{}, newFakeShareCache())

	fieldErrs, err := svc.Create(context.Background(), "H", "Ex")
	if err != nil {
		t.Fatal(err)
	}
	if len(fieldErrs) == 0 {
		t.Fatal("short names accepted")
	}

	fieldErrs, err = svc.Create(context.Background(), "HR", "Exit")
	if err != nil || len(fieldErrs) != 0 {
		t.Fatalf("valid create failed: %v %v", fieldErrs, err)
	}

	_, err = svc.Create(context.Background(), "HR", "Exit")
	if !errors.Is(err, repository.ErrSurveyExists) {
		t.Fatalf("duplicate create err = %v, want ErrSurveyExists", err)
	}
}

func TestSurveyServiceReplacePreservesPublishState(t *testing.T) {
	repo := &fakeSurveyRepo{categories: []model.Category{{
		CategoryName: "HR",
		Surveys: []model.Survey{{
			SurveyName: "Exit",
			Published:  true,
			ShareID:    "tok1234567",
			Questions:  []model.Question{{ID: "q1", Text: "Old question", Type: model.QuestionTypeShortText}},
		}},
	}}}
	svc := NewSurveyService(repo, newFakeShareCache())

	questions := []model.Question{{ID: "q2", Text: "New question", Type: model.QuestionTypeLongText}}
	fieldErrs, err := svc.Replace(context.Background(), "HR", "Exit", questions)
	if err != nil || len(fieldErrs) != 0 {
		t.Fatalf("replace failed: %v %v", fieldErrs, err)
	}

	got, _ := repo.FindSurvey(context.Background(), "HR", "Exit")
	if !got.Published || got.ShareID != "tok1234567" {
		t.Fatalf("publish state lost on replace: %+v", got)
	}
	if len(got.Questions) != 1 || got.Questions[0].ID != "q2" {
		t.Fatalf("questions not replaced: %+v", got.Questions)
	}
}

func TestSurveyServiceReplaceRejectsInvalidQuestions(t *testing.T) {
	repo := &fakeSurveyRepo{}
	svc := NewSurveyService(repo, newFakeShareCache())

	questions := []model.Question{{ID: "q1", Text: "ok", Type: model.QuestionTypeShortText}}
	fieldErrs, err := svc.Replace(context.Background(), "HR", "Exit", questions)
	if err != nil {
		t.Fatal(err)
	}
	if len(fieldErrs) == 0 {
		t.Fatal("invalid question accepted")
	}
	if len(repo.categories) != 0 {
		t.Fatal("storage touched despite validation errors")
	}
}

func TestSurveyServiceReplaceNilQuestions(t *testing.T) {
	repo := &fakeSurveyRepo{}
	svc := NewSurveyService(repo, newFakeShareCache())

	if fieldErrs, err := svc.Replace(context.Background(), "HR", "Exit", nil); err != nil || len(fieldErrs) != 0 {
		t.Fatalf("autosave of empty draft failed: %v %v", fieldErrs, err)
	}
	got, _ := repo.FindSurvey(context.Background(), "HR", "Exit")
	if got == nil || got.Questions == nil || len(got.Questions) != 0 {
		t.Fatalf("nil questions not stored as empty list: %+v", got)
	}
}

func TestSurveyServicePublishMintsOnceAndCaches(t *testing.T) {
	repo := &fakeSurveyRepo{categories: []model.Category{{
		CategoryName: "HR",
		Surveys:      []model.Survey{{SurveyName: "Exit"}},
	}}}
	share := newFakeShareCache()
	svc := NewSurveyService(repo, share)

	tok, err := svc.Publish(context.Background(), "HR", "Exit")
	if err != nil {
		t.Fatal(err)
	}
	if len(tok) != 10 {
		t.Fatalf("token %q, want 10 chars", tok)
	}
	if ref, ok := share.entries[tok]; !ok || ref.SurveyName != "Exit" {
		t.Fatalf("share cache not populated: %+v", share.entries)
	}

	again, err := svc.Publish(context.Background(), "HR", "Exit")
	if err != nil || again != tok {
		t.Fatalf("republish minted new token %q, want %q", again, tok)
	}
}

func TestSurveyServicePublishMissing(t *testing.T) {
	svc := NewSurveyService(&fakeSurveyRepo{}, newFakeShareCache())
	if _, err := svc.Publish(context.Background(), "HR", "Exit"); !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("err = %v, want ErrSurveyNotFound", err)
	}
}

func TestSurveyServiceResolveFallsBackToStore(t *testing.T) {
	repo := &fakeSurveyRepo{categories: []model.Category{{
		CategoryName: "HR",
		Surveys:      []model.Survey{{SurveyName: "Exit", Published: true, ShareID: "tok1234567"}},
	}}}
	share := newFakeShareCache()
	svc := NewSurveyService(repo, share)

	ref, err := svc.Resolve(context.Background(), "tok1234567")
	if err != nil {
		t.Fatal(err)
	}
	if ref.CategoryName != "HR" || ref.SurveyName != "Exit" {
		t.Fatalf("resolved %+v", ref)
	}
	// cache backfilled on the fallback path
	if _, ok := share.entries["tok1234567"]; !ok {
		t.Fatal("share cache not backfilled after store scan")
	}

	if _, err := svc.Resolve(context.Background(), "nope"); !errors.Is(err, ErrShareNotFound) {
		t.Fatalf("err = %v, want ErrShareNotFound", err)
	}
}

func TestSurveyServiceDeleteDropsShareToken(t *testing.T) {
	repo := &fakeSurveyRepo{categories: []model.Category{{
		CategoryName: "HR",
		Surveys:      []model.Survey{{SurveyName: "Exit", ShareID: "tok1234567"}},
	}}}
	share := newFakeShareCache()
	share.entries["tok1234567"] = model.SurveyRef{CategoryName: "HR", SurveyName: "Exit"}
	svc := NewSurveyService(repo, share)

	if err := svc.Delete(context.Background(), "HR", "Exit"); err != nil {
		t.Fatal(err)
	}
	if len(share.deletes) != 1 || share.deletes[0] != "tok1234567" {
		t.Fatalf("share token not dropped: %v", share.deletes)
	}
	if err := svc.Delete(context.Background(), "HR", "Exit"); !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("second delete err = %v, want ErrSurveyNotFound", err)
	}
}
