package service

import (
	"context"

	"github.com/PSilyDev/survease/internal/analytics"
	"github.com/PSilyDev/survease/internal/model"
	"github.com/PSilyDev/survease/internal/repository"
)

// fakeSurveyRepo is an in-memory SurveyRepo backed by a category slice.
type fakeSurveyRepo struct {
	categories []model.Category
	err        error
}

func (r *fakeSurveyRepo) FetchAll(ctx context.Context) ([]model.Category, error) {
	return r.categories, r.err
}

func (r *fakeSurveyRepo) FindSurvey(ctx context.Context, categoryName, surveyName string) (*model.Survey, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.categories {
		if c.CategoryName != categoryName {
			continue
		}
		for i := range c.Surveys {
			if c.Surveys[i].SurveyName == surveyName {
				s := c.Surveys[i]
				return &s, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeSurveyRepo) Create(ctx context.Context, categoryName, surveyName string) error {
	if r.err != nil {
		return r.err
	}
	if s, _ := r.FindSurvey(ctx, categoryName, surveyName); s != nil {
		return repository.ErrSurveyExists
	}
	r.put(categoryName, model.Survey{SurveyName: surveyName, Questions: []model.Question{}})
	return nil
}

func (r *fakeSurveyRepo) Replace(ctx context.Context, categoryName string, survey model.Survey) error {
	if r.err != nil {
		return r.err
	}
	r.put(categoryName, survey)
	return nil
}

func (r *fakeSurveyRepo) Delete(ctx context.Context, categoryName, surveyName string) error {
	for ci, c := range r.categories {
		if c.CategoryName != categoryName {
			continue
		}
		for si, s := range c.Surveys {
			if s.SurveyName == surveyName {
				r.categories[ci].Surveys = append(c.Surveys[:si], c.Surveys[si+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *fakeSurveyRepo) SetPublished(ctx context.Context, categoryName, surveyName, shareID string) error {
	if r.err != nil {
		return r.err
	}
	for ci, c := range r.categories {
		if c.CategoryName != categoryName {
			continue
		}
		for si, s := range c.Surveys {
			if s.SurveyName == surveyName {
				r.categories[ci].Surveys[si].Published = true
				r.categories[ci].Surveys[si].ShareID = shareID
				return nil
			}
		}
	}
	return ErrSurveyNotFound
}

func (r *fakeSurveyRepo) put(categoryName string, survey model.Survey) {
	for ci, c := range r.categories {
		if c.CategoryName != categoryName {
			continue
		}
		for si, s := range c.Surveys {
			if s.SurveyName == survey.SurveyName {
				r.categories[ci].Surveys[si] = survey
				return
			}
		}
		r.categories[ci].Surveys = append(c.Surveys, survey)
		return
	}
	r.categories = append(r.categories, model.Category{
		CategoryName: categoryName,
		Surveys:      []model.Survey{survey},
	})
}

// fakeResponseRepo is an in-memory ResponseRepo.
type fakeResponseRepo struct {
	docs []model.ResponseDocument
	err  error
}

func (r *fakeResponseRepo) Insert(ctx context.Context, doc *model.ResponseDocument) error {
	if r.err != nil {
		return r.err
	}
	r.docs = append(r.docs, *doc)
	return nil
}

func (r *fakeResponseRepo) FetchAll(ctx context.Context) ([]model.ResponseDocument, error) {
	return r.docs, r.err
}

func (r *fakeResponseRepo) Delete(ctx context.Context, id string) error {
	for i, d := range r.docs {
		if d.ID == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeShareCache is an in-memory ShareCache.
type fakeShareCache struct {
	entries map[string]model.SurveyRef
	deletes []string
}

func newFakeShareCache() *fakeShareCache {
	return &fakeShareCache{entries: map[string]model.SurveyRef{}}
}

func (c *fakeShareCache) Set(ctx context.Context, shareID string, ref model.SurveyRef) error {
	c.entries[shareID] = ref
	return nil
}

func (c *fakeShareCache) Get(ctx context.Context, shareID string) (*model.SurveyRef, error) {
	if ref, ok := c.entries[shareID]; ok {
		return &ref, nil
	}
	return nil, nil
}

func (c *fakeShareCache) Delete(ctx context.Context, shareID string) error {
	delete(c.entries, shareID)
	c.deletes = append(c.deletes, shareID)
	return nil
}

// fakeAggregateCache is an in-memory AggregateCache that counts
// invalidations.
type fakeAggregateCache struct {
	idx         analytics.AggregateIndex
	invalidated int
}

func (c *fakeAggregateCache) Get(ctx context.Context) (analytics.AggregateIndex, error) {
	return c.idx, nil
}

func (c *fakeAggregateCache) Set(ctx context.Context, idx analytics.AggregateIndex) error {
	c.idx = idx
	return nil
}

func (c *fakeAggregateCache) Invalidate(ctx context.Context) error {
	c.idx = nil
	c.invalidated++
	return nil
}
