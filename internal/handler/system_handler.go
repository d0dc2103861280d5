package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type SystemHandler struct {
	backupUC *usecase.BackupUsecase
}

// DI
func NewSystemHandler(backupUC *usecase.BackupUsecase) *SystemHandler {
	return &SystemHandler{backupUC: backupUC}
}

func (h *SystemHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/system")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequirePermission(model.PermSystemBackup))

	g.POST("/backup", h.backup)
	g.GET("/backups", h.listBackups)
}

func (h *SystemHandler) backup(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.backupUC.Run(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SystemHandler) listBackups(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	names, err := h.backupUC.List(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"backups": names})
}
