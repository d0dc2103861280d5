package server

import (
	"context"

	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlersはルート登録に必要なhandler一式。
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Supplier *handler.SupplierHandler
	Sale     *handler.SaleHandler
	System   *handler.SystemHandler
}

type Server struct {
	e *echo.Echo
}

// Newはechoを組み立ててルートを登録する。
func New(cfg config.Config, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e, cfg)
	h.Supplier.RegisterRoutes(e, cfg)
	h.Sale.RegisterRoutes(e, cfg)
	h.System.RegisterRoutes(e, cfg)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Shutdownは処理中のリクエストを待ってから止める。
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
