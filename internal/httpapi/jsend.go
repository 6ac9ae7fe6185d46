package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type jsendResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func success(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, jsendResponse{
		Status: "success",
		Data:   data,
	})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, jsendResponse{
		Status:  "fail",
		Message: message,
	})
}

func serverError(c echo.Context, code int, message string) error {
	return c.JSON(code, jsendResponse{
		Status:  "error",
		Message: message,
		Code:    code,
	})
}
