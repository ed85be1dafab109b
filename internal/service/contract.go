package service

import (
	"context"

	"github.com/avjabalpur/cian-erp-sub002/internal/dto"
)

type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (res dto.AuthResponse, err error)
	Register(ctx context.Context, payload dto.RegisterRequest) (registered bool, err error)
	Refresh(ctx context.Context, payload dto.RefreshTokenRequest) (res dto.AuthResponse, err error)
	Validate(token string) bool
	Me(ctx context.Context, userID int64) (res dto.UserProfile, err error)
	Logout(ctx context.Context, userID int64) (err error)
	SweepExpiredSessions(ctx context.Context) (cleared int64, err error)
}

type SalesOrderService interface {
	GetByID(ctx context.Context, id int64) (res dto.SalesOrderResponse, err error)
	Submit(ctx context.Context, id int64, actorID int64) (res dto.SalesOrderResponse, err error)
	Approve(ctx context.Context, id int64, actorID int64) (res dto.SalesOrderResponse, err error)
	Reject(ctx context.Context, id int64, actorID int64) (res dto.SalesOrderResponse, err error)
}

type SalesOrderStageService interface {
	ApproveStage(ctx context.Context, salesOrderID int64, stageName string, actorID int64) (res dto.SalesOrderStageResponse, err error)
	RejectStage(ctx context.Context, salesOrderID int64, stageName string, actorID int64) (res dto.SalesOrderStageResponse, err error)
	ListStages(ctx context.Context, salesOrderID int64) (res []dto.SalesOrderStageResponse, err error)
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, data interface{}) error
}
