package service

import (
	"context"

	"github.com/yhubail/graphql/internal/model"
	"github.com/yhubail/graphql/internal/repository"
)

// ProfileService 抓取+聚合编排。指标对象每次抓取重建，不缓存
type ProfileService struct {
	ProfileRepo *repository.ProfileRepository
	Aggregator  *AggregatorService
}

func NewProfileService(profileRepo *repository.ProfileRepository, aggregator *AggregatorService) *ProfileService {
	return &ProfileService{
		ProfileRepo: profileRepo,
		Aggregator:  aggregator,
	}
}

// GetMetrics 失败时不返回部分指标，整体成功或整体失败
func (s *ProfileService) GetMetrics(ctx context.Context, token string) (*model.ProfileMetrics, error) {
	raw, err := s.ProfileRepo.FetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.Aggregator.Aggregate(raw)
}
