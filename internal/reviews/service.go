package reviews

import (
	"context"
	"math"

	"github.com/google/uuid"

	"dashpos/internal/domain"
)

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, businessID string, req domain.CreateReviewRequest) (*domain.Review, error) {
	rev := domain.Review{
		ID:           uuid.New().String(),
		BusinessID:   businessID,
		MenuItemID:   req.MenuItemID,
		Rating:       req.Rating,
		Comment:      req.Comment,
		CustomerName: req.CustomerName,
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (s *Service) List(ctx context.Context, businessID, menuItemID string, limit, offset int) ([]domain.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, businessID, menuItemID, limit, offset)
}

func (s *Service) Delete(ctx context.Context, businessID, id string) error {
	return s.repo.Delete(ctx, businessID, id)
}

// Stats returns the average rating (one decimal) and the per-star counts.
func (s *Service) Stats(ctx context.Context, businessID, menuItemID string) (*domain.ReviewStats, error) {
	count, sum, distribution, err := s.repo.Stats(ctx, businessID, menuItemID)
	if err != nil {
		return nil, err
	}
	stats := &domain.ReviewStats{
		BusinessID:   businessID,
		ReviewCount:  count,
		Distribution: distribution,
	}
	if count > 0 {
		stats.AverageRating = math.Round(float64(sum)/float64(count)*10) / 10
	}
	return stats, nil
}
