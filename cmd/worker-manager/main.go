// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	commonaws "github.com/saadbelcaidx/connector-os-sub007/internal/common/aws"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/camunda"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/config"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/database"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/observability"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/pipeline"
	"github.com/saadbelcaidx/connector-os-sub007/internal/records"

	is "github.com/saadbelcaidx/connector-os-sub007/internal/workers/communication/intro-send"
	ci "github.com/saadbelcaidx/connector-os-sub007/internal/workers/introduction/compose-introduction"
	rib "github.com/saadbelcaidx/connector-os-sub007/internal/workers/introduction/run-introduction-batch"
)

// worker is implemented by every job handler.
type worker interface {
	Register() error
	Close()
	GetTaskType() string
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format,
		logger.WithOutput(cfg.Logging.Output),
		logger.WithService(cfg.App.Name),
	)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer camundaClient.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	redisClient := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- AWS ---
	var sesClient *commonaws.SESClient
	if cfg.Notifications.Email.Enabled {
		sesClient, err = commonaws.NewSESClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
	}
	var snsClient *commonaws.SNSClient
	if cfg.Notifications.Summary.Enabled {
		snsClient, err = commonaws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
	}

	// --- Introductions ---
	intro := cfg.Introductions
	provider := records.NewProvider(
		records.NewPostgresStore(pg.DB),
		records.WithSearch(records.NewSearchSource(esClient.Client, intro.SupplyIndex)),
		records.WithCache(records.NewSupplyCache(redisClient.Client, config.GetDuration(intro.SupplyCacheTTL))),
		records.WithLogger(log.WithFields(map[string]interface{}{"component": "records"})),
	)
	pipe := pipeline.NewFromConfig(intro, pipeline.WithLogger(log.WithFields(map[string]interface{}{"component": "pipeline"})))

	composeHandler, err := ci.NewHandler(ci.HandlerOptions{
		AppConfig: cfg,
		Camunda:   camundaClient,
		Logger:    log,
		Pipeline:  pipe,
		Supply:    provider,
	})
	if err != nil {
		zapLog.Fatal("failed to create compose-introduction handler", zap.Error(err))
	}

	batchOpts := rib.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       camundaClient,
		Logger:        log,
		Pipeline:      pipe,
		Records:       provider,
		Observability: obs,
	}
	if snsClient != nil {
		batchOpts.Publisher = snsClient
	}
	batchHandler, err := rib.NewHandler(batchOpts)
	if err != nil {
		zapLog.Fatal("failed to create run-introduction-batch handler", zap.Error(err))
	}

	sendOpts := is.HandlerOptions{
		AppConfig: cfg,
		Camunda:   camundaClient,
		Logger:    log,
		Firewall:  pipe.Composer(),
	}
	if sesClient != nil {
		sendOpts.Sender = sesClient
	}
	sendHandler, err := is.NewHandler(sendOpts)
	if err != nil {
		zapLog.Fatal("failed to create intro-send handler", zap.Error(err))
	}

	workers := []worker{composeHandler, batchHandler, sendHandler}
	for _, w := range workers {
		if err := w.Register(); err != nil {
			zapLog.Fatal("failed to register worker", zap.String("taskType", w.GetTaskType()), zap.Error(err))
		}
	}
	zapLog.Info("All workers registered successfully", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	server := &http.Server{Addr: ":8080"}
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			writeStatus(w, http.StatusOK, "healthy", nil)
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()

			checks := map[string]string{}
			ready := true
			for name, check := range map[string]func(context.Context) error{
				"camunda":       camundaClient.HealthCheck,
				"postgres":      pg.Ping,
				"redis":         redisClient.Ping,
				"elasticsearch": esClient.Ping,
			} {
				if err := check(checkCtx); err != nil {
					checks[name] = err.Error()
					ready = false
					continue
				}
				checks[name] = "ok"
			}

			if !ready {
				writeStatus(w, http.StatusServiceUnavailable, "not ready", checks)
				return
			}
			writeStatus(w, http.StatusOK, "ready", checks)
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if checks != nil {
		body["checks"] = checks
	}
	_ = json.NewEncoder(w).Encode(body)
}
