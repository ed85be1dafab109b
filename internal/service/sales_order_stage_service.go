package service

import (
	"context"
	"strings"
	"time"

	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
	"github.com/avjabalpur/cian-erp-sub002/internal/dto"
	"github.com/avjabalpur/cian-erp-sub002/internal/repository"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
)

type SalesOrderStageServiceImpl struct {
	repository repository.SalesOrderRepository
	publisher  EventPublisher
	now        func() time.Time
}

func CreateSalesOrderStageService(repository repository.SalesOrderRepository, publisher EventPublisher) SalesOrderStageService {
	return &SalesOrderStageServiceImpl{
		repository: repository,
		publisher:  publisher,
		now:        time.Now,
	}
}

func (s *SalesOrderStageServiceImpl) ApproveStage(ctx context.Context, salesOrderID int64, stageName string, actorID int64) (res dto.SalesOrderStageResponse, err error) {
	return s.setStage(ctx, salesOrderID, stageName, actorID, true)
}

func (s *SalesOrderStageServiceImpl) RejectStage(ctx context.Context, salesOrderID int64, stageName string, actorID int64) (res dto.SalesOrderStageResponse, err error) {
	return s.setStage(ctx, salesOrderID, stageName, actorID, false)
}

// setStage keeps at most one record per (order, stage). Stage decisions do
// not depend on the order's lifecycle status.
func (s *SalesOrderStageServiceImpl) setStage(ctx context.Context, salesOrderID int64, stageName string, actorID int64, approved bool) (res dto.SalesOrderStageResponse, err error) {
	stageName = strings.TrimSpace(stageName)
	if stageName == "" {
		return res, errs.ErrInvalidStageName
	}

	var stage domain.SalesOrderStage
	err = s.repository.HandleTrx(ctx, func(ctx context.Context, repo repository.SalesOrderRepository) error {
		order, err := repo.GetSalesOrderByIDForUpdate(ctx, salesOrderID)
		if err != nil {
			return err
		}
		if order.ID == 0 {
			return errs.ErrSalesOrderNotFound
		}

		timestamp := s.now().UnixMilli()
		data := domain.SalesOrderStage{
			SalesOrderID: salesOrderID,
			StageName:    stageName,
			IsApproved:   approved,
			CreatedAt:    timestamp,
			UpdatedAt:    timestamp,
		}
		if actorID != 0 {
			data.UpdatedBy = &actorID
		}

		stage, err = repo.UpsertSalesOrderStage(ctx, data)
		return err
	})
	if err != nil {
		return res, err
	}

	publishEvent(ctx, s.publisher, EventSalesOrderStageSet, entityKey(salesOrderID), dto.SalesOrderStageEvent{
		SalesOrderID: salesOrderID,
		StageName:    stageName,
		IsApproved:   approved,
		ActorID:      actorID,
	})

	return buildSalesOrderStageResponse(stage), nil
}

func (s *SalesOrderStageServiceImpl) ListStages(ctx context.Context, salesOrderID int64) (res []dto.SalesOrderStageResponse, err error) {
	order, err := s.repository.GetSalesOrderByID(ctx, salesOrderID)
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, errs.ErrSalesOrderNotFound
	}

	stages, err := s.repository.GetSalesOrderStages(ctx, salesOrderID)
	if err != nil {
		return nil, err
	}

	res = make([]dto.SalesOrderStageResponse, 0, len(stages))
	for _, stage := range stages {
		res = append(res, buildSalesOrderStageResponse(stage))
	}

	return res, nil
}

func buildSalesOrderStageResponse(stage domain.SalesOrderStage) dto.SalesOrderStageResponse {
	return dto.SalesOrderStageResponse{
		ID:           stage.ID,
		SalesOrderID: stage.SalesOrderID,
		StageName:    stage.StageName,
		IsApproved:   stage.IsApproved,
		UpdatedAt:    stage.UpdatedAt,
	}
}
