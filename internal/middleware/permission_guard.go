package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

//contextの権限セットに必要な権限が入っているかを確認します。

func RequirePermission(perm string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawPerms := c.Get(CtxPermissionsKey)
			perms, ok := rawPerms.([]string)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			for _, p := range perms {
				if p == perm {
					return next(c)
				}
			}

			//権限なしは403
			return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
		}
	}
}
