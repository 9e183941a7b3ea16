package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abduss/imgdrive/internal/auth"
	"github.com/abduss/imgdrive/internal/config"
	"github.com/abduss/imgdrive/internal/gallery"
	"github.com/abduss/imgdrive/internal/kv"
	"github.com/abduss/imgdrive/internal/logger"
	"github.com/abduss/imgdrive/internal/metrics"
	"github.com/abduss/imgdrive/internal/objectstore"
	"github.com/abduss/imgdrive/internal/server"
	"github.com/abduss/imgdrive/internal/share"
	"github.com/abduss/imgdrive/internal/storage"
	"github.com/abduss/imgdrive/internal/telegram"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// registry bundles the key-value namespaces with the resources backing them.
type registry struct {
	shares      kv.Store
	uploadPaths kv.Store
	pinger      server.Pinger
	closer      io.Closer
}

func main() {
	_ = godotenv.Load()

	log, err := logger.Init()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck
	zap.ReplaceGlobals(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	metrics.InitMetrics()

	store, err := openObjectStore(ctx, cfg)
	if err != nil {
		log.Fatal("open object store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	reg, err := openRegistry(ctx, cfg)
	if err != nil {
		log.Fatal("open registry", zap.String("driver", cfg.Registry.Driver), zap.Error(err))
	}
	if reg.closer != nil {
		defer reg.closer.Close()
	}

	authService, err := auth.NewService(cfg.Auth)
	if err != nil {
		log.Fatal("init auth", zap.Error(err))
	}

	galleryService := gallery.NewService(store, cfg.Gallery, log.Named("gallery"))
	shareRegistry := share.NewRegistry(reg.shares, log.Named("share"))
	shareService := share.NewService(shareRegistry, galleryService)

	var bot *telegram.Bot
	if cfg.Telegram.Enabled() {
		client := telegram.NewClient(cfg.Telegram.APIBaseURL, cfg.Telegram.BotToken, nil)
		bot = telegram.NewBot(client, galleryService, telegram.NewPreferenceStore(reg.uploadPaths),
			cfg.Telegram.AllowedChatIDs, cfg.Gallery.MaxUploadBytes, log.Named("telegram"))
	}

	router := server.NewRouter(server.Dependencies{
		Config:         cfg,
		ObjectStore:    store,
		Registry:       reg.pinger,
		AuthService:    authService,
		GalleryService: galleryService,
		ShareService:   shareService,
		TelegramBot:    bot,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("imgdrive API listening",
			zap.String("addr", cfg.Server.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("registry", cfg.Registry.Driver),
			zap.Bool("telegram", bot != nil),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}

func openObjectStore(ctx context.Context, cfg config.Config) (objectstore.Gateway, error) {
	switch cfg.Storage.Driver {
	case "minio":
		client, err := storage.NewMinIOClient(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.MinIO); err != nil {
			return nil, fmt.Errorf("ensure bucket: %w", err)
		}
		return objectstore.NewMinIOStore(client, cfg.Storage.Bucket), nil
	case "s3":
		client, err := storage.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return objectstore.NewS3Store(client, cfg.Storage.Bucket), nil
	case "memory":
		return objectstore.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func openRegistry(ctx context.Context, cfg config.Config) (registry, error) {
	switch cfg.Registry.Driver {
	case "postgres":
		pool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return registry{}, err
		}
		if err := storage.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return registry{}, err
		}
		return registry{
			shares:      kv.NewPostgresStore(pool, kv.NamespaceShares),
			uploadPaths: kv.NewPostgresStore(pool, kv.NamespaceUploadPaths),
			pinger:      pool,
			closer:      closerFunc(func() error { pool.Close(); return nil }),
		}, nil
	case "badger":
		db, err := storage.OpenBadger(cfg.Registry.BadgerPath)
		if err != nil {
			return registry{}, err
		}
		shares := kv.NewBadgerStore(db, kv.NamespaceShares)
		return registry{
			shares:      shares,
			uploadPaths: kv.NewBadgerStore(db, kv.NamespaceUploadPaths),
			pinger:      listPinger(shares),
			closer:      db,
		}, nil
	case "memory":
		shares := kv.NewMemoryStore()
		return registry{
			shares:      shares,
			uploadPaths: kv.NewMemoryStore(),
			pinger:      listPinger(shares),
		}, nil
	}
	return registry{}, fmt.Errorf("unknown registry driver %q", cfg.Registry.Driver)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func listPinger(store kv.Store) server.Pinger {
	return pingerFunc(func(ctx context.Context) error {
		_, err := store.List(ctx)
		return err
	})
}
