// Package main GameHub marketplace API.
//
// @title           GameHub Marketplace API
// @version         1.0
// @description     Payment-info management, developer deposit requests, and designer asset moderation.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"gamehub/app/echoServer"
	assetctrl "gamehub/app/echoServer/controller/asset"
	authctrl "gamehub/app/echoServer/controller/auth"
	paymentctrl "gamehub/app/echoServer/controller/payment"
	"gamehub/app/echoServer/validation"
	"gamehub/config"
	assetrepo "gamehub/repository/asset"
	depositrepo "gamehub/repository/deposit"
	paymentinforepo "gamehub/repository/paymentinfo"
	storagerepo "gamehub/repository/storage"
	userrepo "gamehub/repository/user"
	assetsvc "gamehub/service/asset"
	authsvc "gamehub/service/auth"
	paymentsvc "gamehub/service/payment"
	"gamehub/util/database"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	pr := paymentinforepo.New(db)
	dr := depositrepo.New(db)
	ar := assetrepo.New(db)
	sr := storagerepo.NewHTTP(cfg.StorageCloudName, cfg.StorageUploadPreset)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	ps := paymentsvc.New(db, pr, dr, ur)
	assets := assetsvc.New(ar, ur, sr, log)

	// controllers
	authC := &authctrl.Controller{Svc: as, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, Log: log}
	assetC := &assetctrl.Controller{Svc: assets, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:      authC,
		Payment:   paymentC,
		Asset:     assetC,
		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)
	e.Logger.Fatal(e.Start(":" + port))
}
