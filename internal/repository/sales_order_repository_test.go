package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
)

var (
	salesOrderColumns      = []string{"id", "so_number", "is_submitted", "so_status", "current_status", "is_deleted", "created_at", "updated_at", "updated_by"}
	salesOrderStageColumns = []string{"id", "sales_order_id", "stage_name", "is_approved", "created_at", "updated_at", "updated_by"}
)

func (s *RepositoryTestSuite) TestGetSalesOrderByID() {
	repo := CreateSalesOrderRepository(s.db)

	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM sales_orders WHERE id = $1 AND is_deleted = false")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(salesOrderColumns).
			AddRow(1, "SO-1", true, "Submitted", "Submitted", false, 1, 2, 7))

	order, err := repo.GetSalesOrderByID(s.ctx, 1)

	s.NoError(err)
	s.Equal("SO-1", order.SoNumber)
	s.True(order.IsSubmitted)
	s.Require().NotNil(order.SoStatus)
	s.Equal(domain.SalesOrderStatusSubmitted, *order.SoStatus)
}

func (s *RepositoryTestSuite) TestUpdateSalesOrderStatusIsConditional() {
	repo := CreateSalesOrderRepository(s.db)
	status := domain.SalesOrderStatusSubmitted
	actor := int64(7)

	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE sales_orders SET is_submitted = $2, so_status = $3, current_status = $4, updated_at = $5, updated_by = $6 WHERE id = $1 AND is_deleted = false AND is_submitted = $7")).
		WithArgs(int64(1), true, &status, &status, int64(1000), &actor, false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.UpdateSalesOrderStatus(s.ctx, domain.SalesOrder{
		ID: 1, IsSubmitted: true, SoStatus: &status, CurrentStatus: &status, UpdatedAt: 1000, UpdatedBy: &actor,
	}, false, false)

	s.NoError(err)
	s.False(updated)
}

func (s *RepositoryTestSuite) TestUpdateSalesOrderStatusOpenOnly() {
	repo := CreateSalesOrderRepository(s.db)
	status := domain.SalesOrderStatusApproved

	s.mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND is_deleted = false AND is_submitted = $7 AND (so_status IS NULL OR so_status = $8)")).
		WithArgs(int64(1), true, &status, &status, int64(1000), nil, true, domain.SalesOrderStatusSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.UpdateSalesOrderStatus(s.ctx, domain.SalesOrder{
		ID: 1, IsSubmitted: true, SoStatus: &status, CurrentStatus: &status, UpdatedAt: 1000,
	}, true, true)

	s.NoError(err)
	s.False(updated)
}

func (s *RepositoryTestSuite) TestHandleTrxCommitsStageUpsert() {
	repo := CreateSalesOrderRepository(s.db)

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM sales_orders WHERE id = $1 AND is_deleted = false FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(salesOrderColumns).AddRow(1, "SO-1", false, nil, nil, false, 1, 1, nil))
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sales_order_stages(sales_order_id, stage_name, is_approved, created_at, updated_at, updated_by)")).
		WithArgs(int64(1), "Credit", true, int64(1000), int64(1000), nil).
		WillReturnRows(sqlmock.NewRows(salesOrderStageColumns).AddRow(4, 1, "Credit", true, 900, 1000, nil))
	s.mock.ExpectCommit()

	var stage domain.SalesOrderStage
	err := repo.HandleTrx(s.ctx, func(ctx context.Context, txRepo SalesOrderRepository) error {
		order, err := txRepo.GetSalesOrderByIDForUpdate(ctx, 1)
		if err != nil {
			return err
		}

		stage, err = txRepo.UpsertSalesOrderStage(ctx, domain.SalesOrderStage{
			SalesOrderID: order.ID, StageName: "Credit", IsApproved: true, CreatedAt: 1000, UpdatedAt: 1000,
		})
		return err
	})

	s.NoError(err)
	s.Equal(int64(4), stage.ID)
	s.Equal(int64(900), stage.CreatedAt)
}

func (s *RepositoryTestSuite) TestHandleTrxRollsBackOnError() {
	repo := CreateSalesOrderRepository(s.db)
	failure := errors.New("boom")

	s.mock.ExpectBegin()
	s.mock.ExpectRollback()

	err := repo.HandleTrx(s.ctx, func(ctx context.Context, txRepo SalesOrderRepository) error {
		return failure
	})

	s.ErrorIs(err, failure)
}

func (s *RepositoryTestSuite) TestGetSalesOrderStages() {
	repo := CreateSalesOrderRepository(s.db)

	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM sales_order_stages WHERE sales_order_id = $1 ORDER BY stage_name")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(salesOrderStageColumns).
			AddRow(4, 1, "Credit", true, 900, 1000, nil).
			AddRow(5, 1, "Dispatch", false, 900, 1000, 7))

	stages, err := repo.GetSalesOrderStages(s.ctx, 1)

	s.NoError(err)
	s.Len(stages, 2)
	s.Equal("Dispatch", stages[1].StageName)
}
