package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "charges-hub/internal/api/http"
	"charges-hub/internal/audit"
	"charges-hub/internal/auth"
	chargesapp "charges-hub/internal/charges/application"
	"charges-hub/internal/charges/application/eventbus"
	"charges-hub/internal/charges/application/events"
	charges "charges-hub/internal/charges/domain"
	"charges-hub/internal/charges/domain/validation"
	chargesmemory "charges-hub/internal/charges/infrastructure/memory"
	chargesrepo "charges-hub/internal/charges/infrastructure/postgres"
	chargesinterfaces "charges-hub/internal/charges/interfaces"
	chargeshttp "charges-hub/internal/charges/interfaces/http"
	"charges-hub/internal/eventing"
	eventingrepo "charges-hub/internal/eventing/infrastructure/postgres"
	participantrepo "charges-hub/internal/marketparticipants/infrastructure/postgres"
	"charges-hub/internal/observability/metrics"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
	} else {
		logger.Printf("DATABASE_URL not set, running with in-memory storage")
	}

	metrics.Init(db, logger)

	var repo charges.Repository
	var senderChecker auth.SenderAuthorizer
	var auditLogger audit.Logger
	if db != nil {
		repo = chargesrepo.NewChargeRepository(db)
		senderChecker = auth.NewSenderCheckerWithRepository(participantrepo.NewParticipantRepository(db))
		auditLogger = audit.NewRepository(db)
	} else {
		repo = chargesmemory.NewChargeRepository()
	}

	rulesCfg, err := validation.LoadRulesConfiguration(cfg.RulesConfigPath)
	if err != nil {
		logger.Fatalf("rules configuration error: %v", err)
	}

	var publisher chargesapp.EventPublisher
	if db != nil {
		baseBus := eventbus.NewInMemoryBus()
		registry := eventing.NewRegistry()
		registry.Register(events.ChargeOperationsAccepted{})
		registry.Register(events.ChargeOperationsRejected{})
		registry.Register(events.ChargePricesUpdated{})

		outboxStore := eventingrepo.NewOutboxStore(db)
		processedStore := eventingrepo.NewProcessedStore(db)
		dlqStore := eventingrepo.NewDLQStore(db)
		dispatcher := eventing.NewDispatcher(baseBus, outboxStore, registry, dlqStore)
		outboxPublisher := eventing.NewPublisher(outboxStore, dispatcher, cfg.HubActorID, baseBus)

		eventing.Subscribe(baseBus, eventbus.EventTypeOf[events.ChargeOperationsAccepted](), "receipt-logger", func(ctx context.Context, event any) error {
			if e, ok := event.(events.ChargeOperationsAccepted); ok {
				logger.Printf("accepted: document=%s charge=%s operations=%d", e.DocumentID, e.ChargeID, len(e.OperationIDs))
			}
			return nil
		}, processedStore)
		eventing.Subscribe(baseBus, eventbus.EventTypeOf[events.ChargeOperationsRejected](), "receipt-logger", func(ctx context.Context, event any) error {
			if e, ok := event.(events.ChargeOperationsRejected); ok {
				logger.Printf("rejected: document=%s charge=%s reasons=%d", e.DocumentID, e.ChargeID, len(e.Reasons))
			}
			return nil
		}, processedStore)

		go dispatchLoop(dispatcher, cfg.DispatchInterval, logger)
		publisher = chargesinterfaces.NewOutboxPublisher(outboxPublisher)
	} else {
		publisher = chargesinterfaces.NewLoggingPublisher(logger)
	}

	clock := validation.SystemClock{}
	inputFactory := validation.NewInputRulesFactory()
	documents, err := chargesapp.NewDocumentValidator(inputFactory)
	if err != nil {
		logger.Fatalf("document validator error: %v", err)
	}
	input, err := chargesapp.NewOperationValidator(inputFactory)
	if err != nil {
		logger.Fatalf("operation validator error: %v", err)
	}
	prices, err := chargesapp.NewPriceOperationValidator(inputFactory)
	if err != nil {
		logger.Fatalf("price validator error: %v", err)
	}
	businessFactory, err := validation.NewBusinessRulesFactory(repo, rulesCfg, clock)
	if err != nil {
		logger.Fatalf("business rules factory error: %v", err)
	}
	business, err := chargesapp.NewBusinessValidator(businessFactory)
	if err != nil {
		logger.Fatalf("business validator error: %v", err)
	}
	receipts, err := chargesapp.NewReceiptService(publisher, clock)
	if err != nil {
		logger.Fatalf("receipt service error: %v", err)
	}
	commandHandler, err := chargesapp.NewChargeCommandHandler(documents, input, prices, business, repo, receipts, publisher, clock, logger)
	if err != nil {
		logger.Fatalf("command handler error: %v", err)
	}

	documentHandler, err := chargeshttp.NewDocumentHandler(commandHandler, senderChecker, auditLogger, logger)
	if err != nil {
		logger.Fatalf("document handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, []string{"/ingest/"})
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/documents", documentHandler)
	mux.Handle("/ingest/documents/charges", documentHandler)
	mux.Handle("/api/v1/charges", apihttp.NewChargesHandler(repo))
	mux.Handle("/api/v1/charges/prices", apihttp.NewPricesHandler(repo))
	mux.Handle("/api/v1/exports/prices.csv", apihttp.NewExportPricesCSVHandler(repo))
	mux.Handle("/api/v1/reports/prices.pdf", apihttp.NewPriceReportHandler(repo, "pdf"))
	mux.Handle("/api/v1/reports/prices.xlsx", apihttp.NewPriceReportHandler(repo, "xlsx"))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

func dispatchLoop(dispatcher *eventing.Dispatcher, interval time.Duration, logger *log.Logger) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if err := dispatcher.Dispatch(context.Background(), 50); err != nil {
			logger.Printf("outbox dispatch error: %v", err)
		}
	}
}

type config struct {
	DatabaseURL      string
	HTTPAddr         string
	HubActorID       string
	RulesConfigPath  string
	DispatchInterval time.Duration
	JWTSecret        string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:      getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:         getenvDefault("HTTP_ADDR", ":8080"),
		HubActorID:       getenvDefault("HUB_ACTOR_ID", ""),
		RulesConfigPath:  getenvDefault("RULES_CONFIG_PATH", ""),
		DispatchInterval: getenvDuration("OUTBOX_DISPATCH_INTERVAL", 10*time.Second),
		JWTSecret:        getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
