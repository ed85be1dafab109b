package service

import (
	"context"
	"time"

	"github.com/avjabalpur/cian-erp-sub002/config"
	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
	"github.com/avjabalpur/cian-erp-sub002/internal/dto"
	"github.com/avjabalpur/cian-erp-sub002/internal/repository"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/rs/zerolog/log"
)

var statusEvents = map[string]string{
	domain.SalesOrderStatusSubmitted: EventSalesOrderSubmitted,
	domain.SalesOrderStatusApproved:  EventSalesOrderApproved,
	domain.SalesOrderStatusRejected:  EventSalesOrderRejected,
}

type SalesOrderServiceImpl struct {
	repository repository.SalesOrderRepository
	publisher  EventPublisher
	config     config.SalesOrderConfig
	now        func() time.Time
}

func CreateSalesOrderService(repository repository.SalesOrderRepository, publisher EventPublisher, config config.SalesOrderConfig) SalesOrderService {
	return &SalesOrderServiceImpl{
		repository: repository,
		publisher:  publisher,
		config:     config,
		now:        time.Now,
	}
}

func (s *SalesOrderServiceImpl) GetByID(ctx context.Context, id int64) (res dto.SalesOrderResponse, err error) {
	order, err := s.getSalesOrder(ctx, id)
	if err != nil {
		return res, err
	}

	return buildSalesOrderResponse(order), nil
}

// Submit moves a draft order to Submitted. The write is conditional on the
// order still being unsubmitted, so concurrent submits yield one winner.
func (s *SalesOrderServiceImpl) Submit(ctx context.Context, id int64, actorID int64) (res dto.SalesOrderResponse, err error) {
	order, err := s.getSalesOrder(ctx, id)
	if err != nil {
		return res, err
	}

	if order.IsSubmitted {
		return res, errs.ErrAlreadySubmitted
	}

	order.IsSubmitted = true
	updated, err := s.applyStatus(ctx, &order, domain.SalesOrderStatusSubmitted, actorID, false, false)
	if err != nil {
		return res, err
	}
	if !updated {
		return res, errs.ErrAlreadySubmitted
	}

	return buildSalesOrderResponse(order), nil
}

func (s *SalesOrderServiceImpl) Approve(ctx context.Context, id int64, actorID int64) (res dto.SalesOrderResponse, err error) {
	return s.decide(ctx, id, actorID, domain.SalesOrderStatusApproved)
}

func (s *SalesOrderServiceImpl) Reject(ctx context.Context, id int64, actorID int64) (res dto.SalesOrderResponse, err error) {
	return s.decide(ctx, id, actorID, domain.SalesOrderStatusRejected)
}

func (s *SalesOrderServiceImpl) decide(ctx context.Context, id int64, actorID int64, status string) (res dto.SalesOrderResponse, err error) {
	order, err := s.getSalesOrder(ctx, id)
	if err != nil {
		return res, err
	}

	if !order.IsSubmitted {
		return res, errs.ErrNotSubmitted
	}

	if s.config.StrictTransitions && order.IsTerminal() {
		return res, errs.ErrTerminalStatus
	}

	updated, err := s.applyStatus(ctx, &order, status, actorID, true, s.config.StrictTransitions)
	if err != nil {
		return res, err
	}
	if !updated {
		return res, s.lostDecision(ctx, id)
	}

	return buildSalesOrderResponse(order), nil
}

// lostDecision explains a conditional update that matched no row.
func (s *SalesOrderServiceImpl) lostDecision(ctx context.Context, id int64) error {
	order, err := s.getSalesOrder(ctx, id)
	if err != nil {
		return err
	}

	if s.config.StrictTransitions && order.IsTerminal() {
		return errs.ErrTerminalStatus
	}

	return errs.ErrNotSubmitted
}

// applyStatus is the only place that writes so_status and current_status.
// openOnly makes the write conditional on the order not being decided yet.
func (s *SalesOrderServiceImpl) applyStatus(ctx context.Context, order *domain.SalesOrder, status string, actorID int64, expectSubmitted bool, openOnly bool) (bool, error) {
	soStatus := status
	currentStatus := status
	order.SoStatus = &soStatus
	order.CurrentStatus = &currentStatus
	order.UpdatedAt = s.now().UnixMilli()
	if actorID != 0 {
		order.UpdatedBy = &actorID
	}

	updated, err := s.repository.UpdateSalesOrderStatus(ctx, *order, expectSubmitted, openOnly)
	if err != nil || !updated {
		return updated, err
	}

	log.Ctx(ctx).Info().Str("component", "SalesOrderService").Int64("sales_order_id", order.ID).Str("status", status).Msg("status changed")

	publishEvent(ctx, s.publisher, statusEvents[status], entityKey(order.ID), dto.SalesOrderStatusEvent{
		SalesOrderID: order.ID,
		SoNumber:     order.SoNumber,
		Status:       status,
		ActorID:      actorID,
	})

	return true, nil
}

func (s *SalesOrderServiceImpl) getSalesOrder(ctx context.Context, id int64) (domain.SalesOrder, error) {
	order, err := s.repository.GetSalesOrderByID(ctx, id)
	if err != nil {
		return order, err
	}

	if order.ID == 0 {
		return order, errs.ErrSalesOrderNotFound
	}

	return order, nil
}

func buildSalesOrderResponse(order domain.SalesOrder) dto.SalesOrderResponse {
	return dto.SalesOrderResponse{
		ID:            order.ID,
		SoNumber:      order.SoNumber,
		IsSubmitted:   order.IsSubmitted,
		SoStatus:      order.SoStatus,
		CurrentStatus: order.CurrentStatus,
		UpdatedAt:     order.UpdatedAt,
	}
}
