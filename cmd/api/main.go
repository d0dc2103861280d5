package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークンは8時間
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 8 * time.Hour,
	}
}

func (i *jwtIssuer) Issue(userID int64, name string, permissions []string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   userID,
		"name":  name,
		"perms": permissions,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Permission{},
		&model.UserGroup{},
		&model.GroupPermission{},
		&model.UserPermission{},
		&model.Supplier{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	supplierRepo := infraRepo.NewSupplierGormRepository(gormDB)
	saleRepo := infraRepo.NewSaleGormRepository(gormDB)
	saleItemRepo := infraRepo.NewSaleItemGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	permRepo := infraRepo.NewPermissionGormRepository(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := newJWTIssuer(cfg.JWTSecret)

	//Usecase生成
	loginUC := auth.NewLoginUsecase(userRepo, permRepo, verifier, issuer, clock)
	saleUC := usecase.NewSaleUsecase(txManager, saleRepo, saleItemRepo)
	productUC := usecase.NewProductUsecase(txManager, productRepo)
	supplierUC := usecase.NewSupplierUsecase(supplierRepo)
	backupUC := usecase.NewBackupUsecase(txManager, cfg.BackupDir)

	//Handler生成
	srv := server.New(cfg, server.Handlers{
		Auth:     handler.NewAuthHandler(loginUC),
		Product:  handler.NewProductHandler(productUC),
		Supplier: handler.NewSupplierHandler(supplierUC),
		Sale:     handler.NewSaleHandler(saleUC),
		System:   handler.NewSystemHandler(backupUC),
	})

	//Server起動
	addr := ":" + cfg.Port

	go func() {
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	//SIGINT/SIGTERMで graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
