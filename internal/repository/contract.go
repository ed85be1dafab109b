package repository

import (
	"context"

	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
)

type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (res domain.User, err error)
	GetUserByEmail(ctx context.Context, email string) (res domain.User, err error)
	GetUserByID(ctx context.Context, id int64) (res domain.User, err error)
	AddUser(ctx context.Context, data domain.User) (id int64, err error)
	UpdateLoginInfo(ctx context.Context, data domain.User) (err error)
	RecordFailedLogin(ctx context.Context, id int64, maxAttempts int, lockedUntil int64, timestamp int64) (err error)
	RotateRefreshToken(ctx context.Context, id int64, previous string, next string, expiry int64, timestamp int64) (rotated bool, err error)
	ClearRefreshToken(ctx context.Context, id int64, timestamp int64) (err error)
	ClearExpiredRefreshTokens(ctx context.Context, now int64) (cleared int64, err error)
}

type RoleRepository interface {
	GetUserRolesByUserID(ctx context.Context, userID int64) (data []domain.UserRole, err error)
	GetRolesByIDs(ctx context.Context, ids []int64) (data []domain.Role, err error)
}

type SalesOrderRepository interface {
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo SalesOrderRepository) error) error

	GetSalesOrderByID(ctx context.Context, id int64) (data domain.SalesOrder, err error)
	GetSalesOrderByIDForUpdate(ctx context.Context, id int64) (data domain.SalesOrder, err error)
	UpdateSalesOrderStatus(ctx context.Context, data domain.SalesOrder, expectSubmitted bool, openOnly bool) (updated bool, err error)
	UpsertSalesOrderStage(ctx context.Context, data domain.SalesOrderStage) (res domain.SalesOrderStage, err error)
	GetSalesOrderStages(ctx context.Context, salesOrderID int64) (data []domain.SalesOrderStage, err error)
}
