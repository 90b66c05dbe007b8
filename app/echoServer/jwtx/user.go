// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"gamehub/model"

	"github.com/labstack/echo/v4"
)

func UserIDFromContext(c echo.Context) (int64, error) {
	if id, ok := c.Get("user_id").(int64); ok && id > 0 {
		return id, nil
	}
	return 0, errors.New("no user id in context")
}

func EmailFromContext(c echo.Context) (string, error) {
	if s, ok := c.Get("email").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("no email in context")
}

func RoleFromContext(c echo.Context) (model.UserRole, error) {
	if s, ok := c.Get("role").(string); ok {
		r := model.UserRole(s)
		if r.Valid() {
			return r, nil
		}
	}
	return "", errors.New("no valid role in context")
}
