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

var ErrNotPublished = errors.New("survey is not accepting responses")

// ResponseService accepts public submissions and serves stored responses.
// A submission is checked against the answer schema compiled from the
// published survey's question list before it is stored.
type ResponseService struct {
	surveyRepo   repository.SurveyRepo
	responseRepo repository.ResponseRepo
	aggCache     cache.AggregateCache
}

// NewResponseService creates a new response service
func NewResponseService(surveyRepo repository.SurveyRepo, responseRepo repository.ResponseRepo, aggCache cache.AggregateCache) *ResponseService {
	return &ResponseService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		aggCache:     aggCache,
	}
}

// Submit validates and stores a response document. Field errors are
// returned per question without touching storage; a stored document gets
// an id when the submitter did not provide one.
func (s *ResponseService) Submit(ctx context.Context, doc *model.ResponseDocument) ([]schema.FieldError, error) {
	survey, err := s.surveyRepo.FindSurvey(ctx, doc.CategoryName, doc.SurveyName)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if !survey.Published {
		return nil, ErrNotPublished
	}

	values := valuesFromAnswers(survey.Questions, doc.Answers)
	answerSchema := schema.CompileAnswerSchema(survey.Questions)
	coerced, errs := answerSchema.Validate(values)
	if len(errs) > 0 {
		return errs, nil
	}

	// Re-normalize so stored answers follow question order and carry the
	// coerced (trimmed, integer-rating) values.
	doc.Answers = schema.NormalizeAnswers(survey.Questions, coerced)
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if err := s.responseRepo.Insert(ctx, doc); err != nil {
		return nil, err
	}
	_ = s.aggCache.Invalidate(ctx)
	return nil, nil
}

// List returns every stored response in submission order.
func (s *ResponseService) List(ctx context.Context) ([]model.ResponseDocument, error) {
	return s.responseRepo.FetchAll(ctx)
}

// Delete removes one stored response by id.
func (s *ResponseService) Delete(ctx context.Context, id string) error {
	if err := s.responseRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.aggCache.Invalidate(ctx)
}

// valuesFromAnswers reconstructs the per-question value map from the wire
// answer list. Answers for questions the survey no longer has are ignored.
func valuesFromAnswers(questions []model.Question, answers []model.QuestionAnswer) map[string]interface{} {
	byText := make(map[string]model.AnswerValues, len(answers))
	for _, qa := range answers {
		byText[qa.Question] = qa.Answer
	}

	values := make(map[string]interface{}, len(questions))
	for _, q := range questions {
		answer, ok := byText[q.Text]
		if !ok || len(answer) == 0 {
			continue
		}
		if q.Type == model.QuestionTypeMultipleChoice {
			values[q.ID] = []interface{}(answer)
		} else {
			values[q.ID] = answer[0]
		}
	}
	return values
}
