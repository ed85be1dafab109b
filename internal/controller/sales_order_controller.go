package controller

import (
	"context"
	"strconv"

	"github.com/avjabalpur/cian-erp-sub002/internal/dto"
	"github.com/avjabalpur/cian-erp-sub002/internal/middleware"
	"github.com/avjabalpur/cian-erp-sub002/internal/service"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/avjabalpur/cian-erp-sub002/pkg/response"
	"github.com/labstack/echo/v4"
)

type SalesOrderController struct {
	service      service.SalesOrderService
	stageService service.SalesOrderStageService
}

func CreateSalesOrderController(g *echo.Group, service service.SalesOrderService, stageService service.SalesOrderStageService, isLoggedIn echo.MiddlewareFunc, isApprover echo.MiddlewareFunc) {
	sc := SalesOrderController{
		service:      service,
		stageService: stageService,
	}
	g.GET("/sales-order/:id", sc.GetSalesOrder, isLoggedIn)
	g.POST("/sales-order/:id/submit", sc.Submit, isLoggedIn)
	g.POST("/sales-order/:id/approve", sc.Approve, isLoggedIn, isApprover)
	g.POST("/sales-order/:id/reject", sc.Reject, isLoggedIn, isApprover)
	g.GET("/sales-order/:id/stages", sc.ListStages, isLoggedIn)
	g.POST("/sales-order/:id/stages/:stage/approve", sc.ApproveStage, isLoggedIn, isApprover)
	g.POST("/sales-order/:id/stages/:stage/reject", sc.RejectStage, isLoggedIn, isApprover)
}

func parseID(e echo.Context) (int64, error) {
	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.ErrClient
	}
	return id, nil
}

func actorID(e echo.Context) int64 {
	principal, ok := middleware.GetPrincipal(e)
	if !ok {
		return 0
	}
	return principal.UserID
}

func (c *SalesOrderController) GetSalesOrder(e echo.Context) error {
	id, err := parseID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	resp, err := c.service.GetByID(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *SalesOrderController) transition(e echo.Context, fn func(ctx context.Context, id int64, actorID int64) (dto.SalesOrderResponse, error)) error {
	id, err := parseID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	resp, err := fn(e.Request().Context(), id, actorID(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *SalesOrderController) Submit(e echo.Context) error {
	return c.transition(e, c.service.Submit)
}

func (c *SalesOrderController) Approve(e echo.Context) error {
	return c.transition(e, c.service.Approve)
}

func (c *SalesOrderController) Reject(e echo.Context) error {
	return c.transition(e, c.service.Reject)
}

func (c *SalesOrderController) ListStages(e echo.Context) error {
	id, err := parseID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	resp, err := c.stageService.ListStages(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *SalesOrderController) setStage(e echo.Context, fn func(ctx context.Context, salesOrderID int64, stageName string, actorID int64) (dto.SalesOrderStageResponse, error)) error {
	id, err := parseID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	resp, err := fn(e.Request().Context(), id, e.Param("stage"), actorID(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *SalesOrderController) ApproveStage(e echo.Context) error {
	return c.setStage(e, c.stageService.ApproveStage)
}

func (c *SalesOrderController) RejectStage(e echo.Context) error {
	return c.setStage(e, c.stageService.RejectStage)
}
