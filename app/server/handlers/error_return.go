package handlers

import (
	"bug-tracker/app/server/serialize"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) er(c echo.Context, statusCode int, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return c.JSON(statusCode, &serialize.ErrorMessage{
		Error: message,
	})
}
