package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PSilyDev/survease/internal/model"
)

// ErrSurveyExists is returned by Create when the (category, survey) pair
// is already taken.
var ErrSurveyExists = errors.New("survey already exists")

// SurveyRepo handles MongoDB operations for survey definitions. Surveys
// are stored inside per-category documents and keyed by the natural
// (category_name, survey_name) pair.
type SurveyRepo interface {
	FetchAll(ctx context.Context) ([]model.Category, error)
	FindSurvey(ctx context.Context, categoryName, surveyName string) (*model.Survey, error)
	Create(ctx context.Context, categoryName, surveyName string) error
	Replace(ctx context.Context, categoryName string, survey model.Survey) error
	Delete(ctx context.Context, categoryName, surveyName string) error
	SetPublished(ctx context.Context, categoryName, surveyName, shareID string) error
}

type surveyRepo struct {
	collection *mongo.Collection
}

// NewSurveyRepo creates a new survey repository
func NewSurveyRepo(db *mongo.Database) SurveyRepo {
	return &surveyRepo{
		collection: db.Collection("categories"),
	}
}

func (r *surveyRepo) FetchAll(ctx context.Context) ([]model.Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"category_name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []model.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *surveyRepo) FindSurvey(ctx context.Context, categoryName, surveyName string) (*model.Survey, error) {
	var category model.Category
	err := r.collection.FindOne(ctx, bson.M{
		"category_name":       categoryName,
		"surveys.survey_name": surveyName,
	}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range category.Surveys {
		if category.Surveys[i].SurveyName == surveyName {
			return &category.Surveys[i], nil
		}
	}
	return nil, nil
}

func (r *surveyRepo) Create(ctx context.Context, categoryName, surveyName string) error {
	existing, err := r.FindSurvey(ctx, categoryName, surveyName)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrSurveyExists
	}

	survey := model.Survey{SurveyName: surveyName, Questions: []model.Question{}}
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"category_name": categoryName},
		bson.M{
			"$setOnInsert": bson.M{"category_name": categoryName},
			"$push":        bson.M{"surveys": survey},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Replace is an idempotent whole-survey upsert: the matching entry is
// overwritten in place, or appended when the pair does not exist yet.
func (r *surveyRepo) Replace(ctx context.Context, categoryName string, survey model.Survey) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"category_name": categoryName, "surveys.survey_name": survey.SurveyName},
		bson.M{"$set": bson.M{"surveys.$": survey}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"category_name": categoryName},
		bson.M{
			"$setOnInsert": bson.M{"category_name": categoryName},
			"$push":        bson.M{"surveys": survey},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *surveyRepo) Delete(ctx context.Context, categoryName, surveyName string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"category_name": categoryName},
		bson.M{"$pull": bson.M{"surveys": bson.M{"survey_name": surveyName}}},
	)
	return err
}

func (r *surveyRepo) SetPublished(ctx context.Context, categoryName, surveyName, shareID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"category_name": categoryName, "surveys.survey_name": surveyName},
		bson.M{"$set": bson.M{
			"surveys.$.published": true,
			"surveys.$.shareId":   shareID,
		}},
	)
	return err
}
