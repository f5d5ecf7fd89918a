package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/config"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/logging"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/media"
	miniorepo "github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/minio"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/postgres"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/service"
	transporthttp "github.com/njprem/Desa_Wisata_APP_BackEnd/internal/transport/http"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr, logging.WithService("desa-wisata-api"))
		if err != nil {
			log.Fatalf("logstash: %v", err)
		}
		defer writer.Close()
		log.SetOutput(io.MultiWriter(os.Stdout, writer))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	minioClient, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("minio: %v", err)
	}
	storage := miniorepo.NewStorage(minioClient, cfg.MinIOPublicURL)
	for _, bucket := range []string{cfg.MinIOBucketListing, cfg.MinIOBucketArticle} {
		if err := storage.EnsureBucket(ctx, bucket); err != nil {
			log.Fatalf("minio bucket %s: %v", bucket, err)
		}
	}

	userRepo := postgres.NewUserRepo(db)
	roleRepo := postgres.NewRoleRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	tourismRepo := postgres.NewTourismRepo(db)
	umkmRepo := postgres.NewUmkmRepo(db)
	articleRepo := postgres.NewArticleRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)

	jwt := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	authSvc := service.NewAuthService(userRepo, roleRepo, sessionRepo, jwt, cfg.GoogleAudience)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		admin, err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
		if err != nil {
			log.Fatalf("seed admin: %v", err)
		}
		log.Printf("admin account %s ready", admin.Email)
	}

	tourismSvc := service.NewTourismService(tourismRepo, cfg.MaxImagesPerItem)
	umkmSvc := service.NewUmkmService(umkmRepo, cfg.MaxImagesPerItem)
	articleSvc := service.NewArticleService(articleRepo)
	mediaSvc := service.NewMediaService(storage, tourismRepo, umkmRepo, articleRepo, service.MediaConfig{
		ListingBucket: cfg.MinIOBucketListing,
		ArticleBucket: cfg.MinIOBucketArticle,
		MaxImages:     cfg.MaxImagesPerItem,
		Processor:     media.NewInspector(cfg.ImageMaxBytes, cfg.ImageMaxDimension),
	})

	var visitorSvc *service.VisitorStatsService
	if cfg.ElasticsearchURL != "" {
		es, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.ElasticsearchURL},
			Username:  cfg.ElasticsearchUsername,
			Password:  cfg.ElasticsearchPassword,
		})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		visitorSvc = service.NewVisitorStatsService(es, service.VisitorStatsConfig{
			LogIndex:       cfg.VisitorLogIndex,
			RequestTimeout: 5 * time.Second,
		})
	}

	requestLogger := log.New(log.Writer(), "", 0)
	e := transporthttp.NewRouter(cfg.AllowOrigins, requestLogger)
	transporthttp.RegisterAuth(e, authSvc)
	transporthttp.RegisterPublic(e, transporthttp.PublicServices{
		Tourism:    tourismSvc,
		Umkm:       umkmSvc,
		Articles:   articleSvc,
		Categories: service.NewCategoryService(categoryRepo),
	})
	transporthttp.RegisterAdmin(e, transporthttp.AdminServices{
		Auth:      authSvc,
		Tourism:   tourismSvc,
		Umkm:      umkmSvc,
		Articles:  articleSvc,
		Dashboard: service.NewDashboardService(tourismRepo, umkmRepo, articleRepo),
		Media:     mediaSvc,
		Export:    service.NewExportService(tourismRepo, umkmRepo),
		Visitors:  visitorSvc,
	})
	transporthttp.RegisterSwagger(e)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
