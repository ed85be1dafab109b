package repository

import (
	"context"

	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type RoleRepositoryImpl struct {
	db *sqlx.DB
}

func CreateRoleRepository(db *sqlx.DB) RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

func (r *RoleRepositoryImpl) GetUserRolesByUserID(ctx context.Context, userID int64) (data []domain.UserRole, err error) {
	err = r.db.SelectContext(ctx, &data, "SELECT * FROM user_roles WHERE user_id = $1", userID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUserRolesByUserID").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

func (r *RoleRepositoryImpl) GetRolesByIDs(ctx context.Context, ids []int64) (data []domain.Role, err error) {
	if len(ids) == 0 {
		return nil, nil
	}

	err = r.db.SelectContext(ctx, &data, "SELECT * FROM roles WHERE id = ANY($1) ORDER BY name", pq.Array(ids))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetRolesByIDs").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}
