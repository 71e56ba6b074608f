package repository

import (
	"context"

	"practice-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) FindByJobID(ctx context.Context, jobID string) ([]models.Question, error) {
	return r.find(ctx, bson.M{"job_id": jobID})
}

// FindByTopic returns questions on the topic, any difficulty, skipping the
// excluded question ids.
func (r *QuestionRepository) FindByTopic(ctx context.Context, topic string, excludeIDs []string) ([]models.Question, error) {
	return r.find(ctx, withExclusions(bson.M{"topic": topic}, excludeIDs))
}

// FindByChapter returns questions in the chapter regardless of topic.
func (r *QuestionRepository) FindByChapter(ctx context.Context, chapter string, excludeIDs []string) ([]models.Question, error) {
	return r.find(ctx, withExclusions(bson.M{"chapter": chapter}, excludeIDs))
}

func (r *QuestionRepository) FindByTopicAndDifficulty(ctx context.Context, topic, difficulty string, excludeIDs []string) ([]models.Question, error) {
	return r.find(ctx, withExclusions(bson.M{"topic": topic, "difficulty": difficulty}, excludeIDs))
}

// FindPartByID locates the question embedding the part and returns the
// part joined with the question's classification. A stale id yields
// (nil, nil), not an error: historical attempts are allowed to reference
// parts that were since deleted.
func (r *QuestionRepository) FindPartByID(ctx context.Context, partID string) (*models.PartLookup, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"parts.id": partID}).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, p := range question.Parts {
		if p.ID == partID {
			return &models.PartLookup{
				Part:       p,
				QuestionID: question.ID,
				Topic:      question.Topic,
				Chapter:    question.Chapter,
				Difficulty: question.Difficulty,
			}, nil
		}
	}
	return nil, nil
}

func (r *QuestionRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *QuestionRepository) find(ctx context.Context, filter bson.M) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, cur.Err()
}

func withExclusions(filter bson.M, excludeIDs []string) bson.M {
	if len(excludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": excludeIDs}
	}
	return filter
}
