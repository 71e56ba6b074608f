package service

import (
	"context"

	"practice-service/internal/models"
	"practice-service/internal/repository"
)

type ResultService struct {
	Repo *repository.ResultRepository
}

func NewResultService(repo *repository.ResultRepository) *ResultService {
	return &ResultService{Repo: repo}
}

func (s *ResultService) GetResultsByUser(ctx context.Context, userID string) ([]models.AttemptResult, error) {
	return s.Repo.FindByUser(ctx, userID)
}
