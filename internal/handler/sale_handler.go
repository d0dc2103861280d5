package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type SaleHandler struct {
	uc *usecase.SaleUsecase
}

// DI
func NewSaleHandler(uc *usecase.SaleUsecase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

func (h *SaleHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/sales")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list, middleware.RequirePermission(model.PermSalesRead))
	g.POST("", h.create, middleware.RequirePermission(model.PermSalesCreate))
	//レポートは:idより先に登録する
	g.GET("/reports/range", h.report, middleware.RequirePermission(model.PermReportsRead))
	g.GET("/:id", h.detail, middleware.RequirePermission(model.PermSalesRead))
	g.DELETE("/:id", h.cancel, middleware.RequirePermission(model.PermSalesCancel))
	g.GET("/:id/verify", h.verify, middleware.RequirePermission(model.PermSalesRead))
}

type saleItemRequest struct {
	ProductID    int64           `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
}

type saleCreateRequest struct {
	Items         []saleItemRequest `json:"items"`
	DeclaredTotal decimal.Decimal   `json:"declared_total"`
}

func (h *SaleHandler) create(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req saleCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	items := make([]usecase.SaleItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.SaleItemInput{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			LineSubtotal: it.LineSubtotal,
		})
	}

	out, err := h.uc.CreateSale(c.Request().Context(), actor, usecase.CreateSaleInput{
		Items:         items,
		DeclaredTotal: req.DeclaredTotal,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *SaleHandler) list(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListSales(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) detail(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetSale(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) cancel(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.CancelSale(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) verify(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.VerifyConsistency(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) report(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	start, ok := parseDateParam(c.QueryParam("start"), false)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start"})
	}
	end, ok := parseDateParam(c.QueryParam("end"), true)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end"})
	}

	out, err := h.uc.GenerateReport(c.Request().Context(), actor, start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// RFC3339か日付（2006-01-02）を受け付ける。
// 日付だけの終端は両端含むの意味になるようその日の終わりまで伸ばす。
func parseDateParam(s string, endOfDay bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}
