package service

import (
	"context"

	"practice-service/internal/models"
	"practice-service/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *QuestionService) ListByJob(ctx context.Context, jobID string) ([]models.Question, error) {
	return s.Repo.FindByJobID(ctx, jobID)
}

func (s *QuestionService) ListByTopic(ctx context.Context, topic string) ([]models.Question, error) {
	return s.Repo.FindByTopic(ctx, topic, nil)
}

func (s *QuestionService) CreateQuestion(ctx context.Context, question *models.Question) error {
	return s.Repo.Create(ctx, question)
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, update map[string]interface{}) error {
	return s.Repo.Update(ctx, id, bson.M(update))
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
