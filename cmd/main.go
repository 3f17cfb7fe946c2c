package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	httpctx "github.com/identops/identity-server/internal/api/http/context"
	"github.com/identops/identity-server/internal/api/http/router"
	"github.com/identops/identity-server/internal/config"
	"github.com/identops/identity-server/internal/hash"
	"github.com/identops/identity-server/internal/logger"
	"github.com/identops/identity-server/internal/model"
	"github.com/identops/identity-server/internal/notifier/mailtrap"
	"github.com/identops/identity-server/internal/repository/postgres"
	"github.com/identops/identity-server/internal/server"
	"github.com/identops/identity-server/internal/service"
	storage "github.com/identops/identity-server/internal/storage/minio"
	"github.com/identops/identity-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	hasher := hash.NewBcrypt()
	tokens := token.NewJWT(cfg.JWT.Secret)
	notifier := mailtrap.NewClient(cfg.Mail.APIURL, cfg.Mail.APIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	avatarStorage, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize avatar storage", "error", err)
	}

	registrationService := service.NewRegistration(userRepo, hasher, tokens, notifier, logger)
	adminService := service.NewAdmin(userRepo, hasher, tokens, cfg.Admin.Email, cfg.Admin.Password, logger)
	usersService := service.NewUsers(userRepo, avatarStorage, logger)
	ctxMgr := httpctx.NewManager()

	r := router.New(registrationService, adminService, usersService, ctxMgr, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
