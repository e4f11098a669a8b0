package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/PSilyDev/survease/internal/cache"
	"github.com/PSilyDev/survease/internal/model"
	"github.com/PSilyDev/survease/internal/repository"
	"github.com/PSilyDev/survease/internal/schema"
)

var (
	ErrSurveyNotFound = errors.New("survey not found")
	ErrShareNotFound  = errors.New("share token not found")
)

// SurveyService handles survey definition operations: listing, the
// idempotent replace upsert used by save and autosave, publishing and
// share-token resolution.
type SurveyService struct {
	surveyRepo repository.SurveyRepo
	shareCache cache.ShareCache
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo, shareCache cache.ShareCache) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
		shareCache: shareCache,
	}
}

// ListPublic returns every category with its surveys.
func (s *SurveyService) ListPublic(ctx context.Context) ([]model.Category, error) {
	return s.surveyRepo.FetchAll(ctx)
}

// Find returns one survey by its natural key, or nil when absent.
func (s *SurveyService) Find(ctx context.Context, categoryName, surveyName string) (*model.Survey, error) {
	return s.surveyRepo.FindSurvey(ctx, categoryName, surveyName)
}

// Create registers an empty survey under the category. Names are validated
// the same way the editing schema validates them.
func (s *SurveyService) Create(ctx context.Context, categoryName, surveyName string) ([]schema.FieldError, error) {
	if errs := schema.CompileAuthorSchema(nil).Validate(categoryName, surveyName); len(errs) > 0 {
		return errs, nil
	}
	return nil, s.surveyRepo.Create(ctx, categoryName, surveyName)
}

// Replace upserts the whole survey definition keyed by (category, survey).
// The question list is validated with the author schema first; field errors
// are returned without touching storage. A replace preserves the published
// flag and share id of an existing survey.
func (s *SurveyService) Replace(ctx context.Context, categoryName, surveyName string, questions []model.Question) ([]schema.FieldError, error) {
	if errs := schema.CompileAuthorSchema(questions).Validate(categoryName, surveyName); len(errs) > 0 {
		return errs, nil
	}

	survey := model.Survey{SurveyName: surveyName, Questions: questions}
	if survey.Questions == nil {
		survey.Questions = []model.Question{}
	}
	existing, err := s.surveyRepo.FindSurvey(ctx, categoryName, surveyName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		survey.Published = existing.Published
		survey.ShareID = existing.ShareID
	}
	return nil, s.surveyRepo.Replace(ctx, categoryName, survey)
}

// Delete removes a survey from its category.
func (s *SurveyService) Delete(ctx context.Context, categoryName, surveyName string) error {
	survey, err := s.surveyRepo.FindSurvey(ctx, categoryName, surveyName)
	if err != nil {
		return err
	}
	if survey == nil {
		return ErrSurveyNotFound
	}
	if survey.ShareID != "" {
		// best effort; the survey document is the source of truth
		_ = s.shareCache.Delete(ctx, survey.ShareID)
	}
	return s.surveyRepo.Delete(ctx, categoryName, surveyName)
}

// Publish flips the survey to published and mints an opaque share token
// used to decorate the public response link. Publishing an already
// published survey returns its existing token.
func (s *SurveyService) Publish(ctx context.Context, categoryName, surveyName string) (string, error) {
	survey, err := s.surveyRepo.FindSurvey(ctx, categoryName, surveyName)
	if err != nil {
		return "", err
	}
	if survey == nil {
		return "", ErrSurveyNotFound
	}
	if survey.Published && survey.ShareID != "" {
		return survey.ShareID, nil
	}

	shareID := uuid.New().String()[:10]
	if err := s.surveyRepo.SetPublished(ctx, categoryName, surveyName, shareID); err != nil {
		return "", err
	}
	ref := model.SurveyRef{CategoryName: categoryName, SurveyName: surveyName}
	if err := s.shareCache.Set(ctx, shareID, ref); err != nil {
		return "", err
	}
	return shareID, nil
}

// Resolve maps a share token back to its survey, falling back to a store
// scan when the cache entry has expired.
func (s *SurveyService) Resolve(ctx context.Context, shareID string) (*model.SurveyRef, error) {
	ref, err := s.shareCache.Get(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if ref != nil {
		return ref, nil
	}

	categories, err := s.surveyRepo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		for _, survey := range category.Surveys {
			if survey.ShareID == shareID {
				found := model.SurveyRef{CategoryName: category.CategoryName, SurveyName: survey.SurveyName}
				_ = s.shareCache.Set(ctx, shareID, found)
				return &found, nil
			}
		}
	}
	return nil, ErrShareNotFound
}
