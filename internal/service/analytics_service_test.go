package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PSilyDev/survease/internal/analytics"
	"github.com/PSilyDev/survease/internal/model"
)

func responseFixture() []model.ResponseDocument {
	return []model.ResponseDocument{
		{ID: "r1", CategoryName: "HR", SurveyName: "Exit",
			Answers: []model.QuestionAnswer{{Question: "Rate us", Answer: model.AnswerValues{float64(4)}}}},
		{ID: "r2", CategoryName: "HR", SurveyName: "Exit",
			Answers: []model.QuestionAnswer{{Question: "Rate us", Answer: model.AnswerValues{float64(2)}}}},
		{ID: "r3", CategoryName: "Sales", SurveyName: "Pulse",
			Answers: []model.QuestionAnswer{{Question: "Happy?", Answer: model.AnswerValues{"Yes"}}}},
	}
}

func TestAnalyticsServiceIndexCachesResult(t *testing.T) {
	agg := &fakeAggregateCache{}
	svc := NewAnalyticsService(&fakeResponseRepo{docs: responseFixture()}, agg)

	idx, err := svc.Index(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if idx["HR::Exit"] == nil || idx["HR::Exit"].TotalResponses != 2 {
		t.Fatalf("index = %+v", idx)
	}
	if agg.idx == nil {
		t.Fatal("aggregate cache not populated")
	}

	// a warm cache is served without touching the store
	svc2 := NewAnalyticsService(&fakeResponseRepo{err: errors.New("store down")}, agg)
	idx2, err := svc2.Index(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if idx2["Sales::Pulse"] == nil {
		t.Fatal("cached index not served")
	}
}

func TestAnalyticsServiceIndexNoPartialOnFetchError(t *testing.T) {
	svc := NewAnalyticsService(&fakeResponseRepo{err: errors.New("store down")}, &fakeAggregateCache{})
	if idx, err := svc.Index(context.Background()); err == nil || idx != nil {
		t.Fatalf("got %v %v, want nil index and error", idx, err)
	}
}

func TestAnalyticsServiceCatalog(t *testing.T) {
	svc := NewAnalyticsService(&fakeResponseRepo{docs: responseFixture()}, &fakeAggregateCache{})
	cat, err := svc.Catalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Categories) != 2 || cat.Categories[0] != "HR" {
		t.Fatalf("catalog = %+v", cat)
	}
}

func TestAnalyticsServiceExportCSV(t *testing.T) {
	svc := NewAnalyticsService(&fakeResponseRepo{docs: responseFixture()}, &fakeAggregateCache{})

	out, err := svc.ExportCSV(context.Background(), &analytics.CSVFilter{Category: "Sales"})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("export has %d lines, want header + 1:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Happy?") || strings.Contains(lines[0], "Rate us") {
		t.Fatalf("header = %q", lines[0])
	}
}
