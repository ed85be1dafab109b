package response

import (
	"net/http"

	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors"`
}

func WriteSuccessResponse(c echo.Context, message string, data interface{}) error {
	resp := SuccessResponse{}
	resp.Status = "success"
	resp.Data = data
	resp.Message = message

	return c.JSON(http.StatusOK, resp)
}

// WriteErrorResponse only ever exposes the message of a registered error.
func WriteErrorResponse(c echo.Context, err error, errors interface{}) error {
	known := errs.Resolve(err)
	resp := ErrorResponse{}
	resp.Status = "error"
	resp.Message = known.Error()
	resp.Errors = errors

	return c.JSON(errs.GetErrorStatusCode(known), resp)
}
