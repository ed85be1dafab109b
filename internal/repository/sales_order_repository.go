package repository

import (
	"context"
	"database/sql"

	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type SalesOrderRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateSalesOrderRepository(db *sqlx.DB) SalesOrderRepository {
	return &SalesOrderRepositoryImpl{
		db: db,
	}
}

func (r *SalesOrderRepositoryImpl) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *SalesOrderRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo SalesOrderRepository) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		return errs.ErrInternalServer
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	txRepo := &SalesOrderRepositoryImpl{
		db: r.db,
		tx: tx,
	}

	err = fn(ctx, txRepo)

	return err
}

func (r *SalesOrderRepositoryImpl) getSalesOrder(ctx context.Context, component string, query string, id int64) (data domain.SalesOrder, err error) {
	row := r.ext().QueryRowxContext(ctx, query, id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *SalesOrderRepositoryImpl) GetSalesOrderByID(ctx context.Context, id int64) (data domain.SalesOrder, err error) {
	return r.getSalesOrder(ctx, "GetSalesOrderByID", "SELECT * FROM sales_orders WHERE id = $1 AND is_deleted = false", id)
}

// GetSalesOrderByIDForUpdate only locks the row when called through HandleTrx.
func (r *SalesOrderRepositoryImpl) GetSalesOrderByIDForUpdate(ctx context.Context, id int64) (data domain.SalesOrder, err error) {
	return r.getSalesOrder(ctx, "GetSalesOrderByIDForUpdate", "SELECT * FROM sales_orders WHERE id = $1 AND is_deleted = false FOR UPDATE", id)
}

// UpdateSalesOrderStatus writes the status fields only if is_submitted still
// holds expectSubmitted and, with openOnly, the order has not been approved or
// rejected yet. updated is false when another writer got there first.
func (r *SalesOrderRepositoryImpl) UpdateSalesOrderStatus(ctx context.Context, data domain.SalesOrder, expectSubmitted bool, openOnly bool) (updated bool, err error) {
	query := "UPDATE sales_orders SET is_submitted = $2, so_status = $3, current_status = $4, updated_at = $5, updated_by = $6 WHERE id = $1 AND is_deleted = false AND is_submitted = $7"
	args := []interface{}{data.ID, data.IsSubmitted, data.SoStatus, data.CurrentStatus, data.UpdatedAt, data.UpdatedBy, expectSubmitted}
	if openOnly {
		query += " AND (so_status IS NULL OR so_status = $8)"
		args = append(args, domain.SalesOrderStatusSubmitted)
	}

	res, err := r.ext().ExecContext(ctx, query, args...)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateSalesOrderStatus").Msg("")
		return false, errs.ErrInternalServer
	}

	affected, err := res.RowsAffected()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateSalesOrderStatus").Msg("")
		return false, errs.ErrInternalServer
	}

	return affected == 1, nil
}

// UpsertSalesOrderStage keeps a single row per (sales_order_id, stage_name).
func (r *SalesOrderRepositoryImpl) UpsertSalesOrderStage(ctx context.Context, data domain.SalesOrderStage) (res domain.SalesOrderStage, err error) {
	query, args, err := sqlx.Named(`INSERT INTO sales_order_stages(sales_order_id, stage_name, is_approved, created_at, updated_at, updated_by)
		VALUES (:sales_order_id, :stage_name, :is_approved, :created_at, :updated_at, :updated_by)
		ON CONFLICT (sales_order_id, stage_name) DO UPDATE SET is_approved = EXCLUDED.is_approved, updated_at = EXCLUDED.updated_at, updated_by = EXCLUDED.updated_by
		RETURNING *`, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpsertSalesOrderStage").Msg("")
		return res, errs.ErrInternalServer
	}

	err = r.ext().QueryRowxContext(ctx, r.db.Rebind(query), args...).StructScan(&res)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpsertSalesOrderStage").Msg("")
		return res, errs.ErrInternalServer
	}

	return res, nil
}

func (r *SalesOrderRepositoryImpl) GetSalesOrderStages(ctx context.Context, salesOrderID int64) (data []domain.SalesOrderStage, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &data, "SELECT * FROM sales_order_stages WHERE sales_order_id = $1 ORDER BY stage_name", salesOrderID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetSalesOrderStages").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}
