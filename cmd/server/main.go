// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"docseva/internal/audit"
	identitycache "docseva/internal/identity/cache"
	identityhandler "docseva/internal/identity/handler"
	identityservice "docseva/internal/identity/service"
	"docseva/internal/jwtauth"
	"docseva/internal/platform/config"
	"docseva/internal/platform/httpserver"
	"docseva/internal/platform/logger"
	"docseva/internal/platform/metrics"
	platformredis "docseva/internal/platform/redis"
	httptransport "docseva/internal/transport/http"
	verifhandler "docseva/internal/verification/handler"
	verifmetrics "docseva/internal/verification/metrics"
	verifservice "docseva/internal/verification/service"
	documentstore "docseva/internal/verification/store/document"
	recordstore "docseva/internal/verification/store/record"
	"docseva/internal/verification/store/schema"
	"docseva/pkg/platform/tx"
)

const auditInboxSize = 1024

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		documents  verifservice.DocumentStore
		records    interface {
			verifservice.RecordStore
			identityservice.RecordLister
		}
		svcOpts []verifservice.Option
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping database", "error", err)
			os.Exit(1)
		}
		if err := schema.Apply(ctx, db); err != nil {
			log.Error("apply schema", "error", err)
			os.Exit(1)
		}
		documents = documentstore.NewPostgres(db)
		records = recordstore.NewPostgres(db)
		svcOpts = append(svcOpts, verifservice.WithTxRunner(tx.NewRunner(db)))
		log.Info("using postgres stores")
	} else {
		documents = documentstore.NewInMemory()
		records = recordstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	var exportCache *identitycache.Redis
	if redisClient != nil {
		defer redisClient.Close()
		exportCache = identitycache.NewRedis(redisClient.Client, cfg.ExportCacheTTL)
		log.Info("export cache enabled", "ttl", cfg.ExportCacheTTL)
	}

	g, gctx := errgroup.WithContext(ctx)

	var publisher audit.Publisher = audit.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafkaPublisher.Close(flushCtx); err != nil {
				log.Warn("kafka publisher close", "error", err)
			}
		}()
		publisher = kafkaPublisher
		log.Info("audit events to kafka", "topic", cfg.Kafka.AuditTopic)
	} else {
		inbox := make(chan audit.Event, auditInboxSize)
		publisher = audit.NewInboxPublisher(inbox)
		worker := audit.NewWorker(audit.NewInMemoryStore(), inbox)
		g.Go(func() error {
			if err := worker.Run(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	jwtService := jwtauth.NewJWTService(cfg.JWTSigningKey, "docseva")
	validator := jwtauth.NewAdapter(jwtService)

	httpMetrics := metrics.New()
	vMetrics := verifmetrics.New()

	svcOpts = append(svcOpts,
		verifservice.WithLogger(log),
		verifservice.WithMetrics(vMetrics),
		verifservice.WithAuditPublisher(publisher),
	)
	if exportCache != nil {
		svcOpts = append(svcOpts, verifservice.WithExportCache(exportCache))
	}
	verification := verifservice.New(documents, records, svcOpts...)

	identityOpts := []identityservice.Option{identityservice.WithLogger(log)}
	if exportCache != nil {
		identityOpts = append(identityOpts, identityservice.WithExportCache(exportCache))
	}
	identity := identityservice.New(documents, records, identityOpts...)

	router := httptransport.NewRouter(log, httpMetrics,
		verifhandler.New(verification, log, validator),
		identityhandler.New(identity, log, validator),
	)
	srv := httpserver.New(cfg.Addr, router)

	g.Go(func() error {
		log.Info("starting docseva", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
