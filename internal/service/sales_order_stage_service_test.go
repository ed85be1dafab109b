package service

import (
	"context"
	"testing"

	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/stretchr/testify/suite"
)

type SalesOrderStageServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	repo      *fakeSalesOrderRepository
	publisher *recordingPublisher
	service   SalesOrderStageService
}

func (s *SalesOrderStageServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = newFakeSalesOrderRepository(
		domain.SalesOrder{ID: 1, SoNumber: "SO-1"},
		domain.SalesOrder{ID: 2, SoNumber: "SO-2", IsSubmitted: true},
	)
	s.publisher = &recordingPublisher{}
	s.service = CreateSalesOrderStageService(s.repo, s.publisher)
}

func TestSalesOrderStageServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SalesOrderStageServiceTestSuite))
}

func (s *SalesOrderStageServiceTestSuite) TestRepeatedDecisionsUpdateOneRecord() {
	res, err := s.service.ApproveStage(s.ctx, 1, "Credit", 7)
	s.Require().NoError(err)
	s.True(res.IsApproved)
	firstID := res.ID

	_, err = s.service.ApproveStage(s.ctx, 1, "Credit", 7)
	s.Require().NoError(err)

	res, err = s.service.RejectStage(s.ctx, 1, "  Credit  ", 8)
	s.Require().NoError(err)
	s.False(res.IsApproved)
	s.Equal(firstID, res.ID)
	s.Equal("Credit", res.StageName)

	stages, err := s.service.ListStages(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(stages, 1)
	s.False(stages[0].IsApproved)
}

func (s *SalesOrderStageServiceTestSuite) TestStagesAreScopedPerOrder() {
	_, err := s.service.ApproveStage(s.ctx, 1, "Dispatch", 7)
	s.Require().NoError(err)
	_, err = s.service.ApproveStage(s.ctx, 1, "Credit", 7)
	s.Require().NoError(err)
	_, err = s.service.RejectStage(s.ctx, 2, "Credit", 7)
	s.Require().NoError(err)

	stages, err := s.service.ListStages(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(stages, 2)
	s.Equal("Credit", stages[0].StageName)
	s.Equal("Dispatch", stages[1].StageName)

	stages, err = s.service.ListStages(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(stages, 1)
	s.False(stages[0].IsApproved)
}

func (s *SalesOrderStageServiceTestSuite) TestStageDecisionsIgnoreLifecycle() {
	_, err := s.service.ApproveStage(s.ctx, 1, "Credit", 7)
	s.NoError(err)

	order := s.repo.order(1)
	s.False(order.IsSubmitted)
	s.Nil(order.SoStatus)
}

func (s *SalesOrderStageServiceTestSuite) TestValidation() {
	_, err := s.service.ApproveStage(s.ctx, 1, "   ", 7)
	s.ErrorIs(err, errs.ErrInvalidStageName)

	_, err = s.service.RejectStage(s.ctx, 99, "Credit", 7)
	s.ErrorIs(err, errs.ErrSalesOrderNotFound)

	_, err = s.service.ListStages(s.ctx, 99)
	s.ErrorIs(err, errs.ErrSalesOrderNotFound)

	s.Empty(s.repo.stages)
	s.Empty(s.publisher.types())
}

func (s *SalesOrderStageServiceTestSuite) TestPublishesStageEvent() {
	_, err := s.service.RejectStage(s.ctx, 2, "Credit", 7)
	s.Require().NoError(err)

	s.Require().Len(s.publisher.events, 1)
	s.Equal(EventSalesOrderStageSet, s.publisher.events[0].EventType)
	s.Equal("2", s.publisher.events[0].Key)
}
