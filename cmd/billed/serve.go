package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/billed/internal/api"
	"github.com/mmynk/billed/internal/auth"
	"github.com/mmynk/billed/internal/config"
	"github.com/mmynk/billed/internal/middleware"
	"github.com/mmynk/billed/internal/receipts"
	"github.com/mmynk/billed/internal/router"
	"github.com/mmynk/billed/internal/service"
	"github.com/mmynk/billed/internal/session"
	"github.com/mmynk/billed/internal/storage/sqlite"
	"github.com/mmynk/billed/internal/store"
	"github.com/mmynk/billed/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web application and the bills API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from ADDR or :8080)")
	serveCmd.Flags().String("db", "", "SQLite database path (default from DB_PATH)")
	serveCmd.Flags().String("api-url", "", "bills API base URL used by the screens (default: this server)")
	serveCmd.Flags().String("log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer db.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	files, localReceipts, err := openReceipts(ctx, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	billSvc, err := service.NewBillService(db, files, reg)
	if err != nil {
		return fmt.Errorf("failed to create bill service: %w", err)
	}
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(db), tokens, logger)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = loopbackURL(ln.Addr())
	}
	client := store.New(&http.Client{Timeout: 30 * time.Second}, apiURL)

	mux := http.NewServeMux()
	mux.Handle(api.NewBillServiceHandler(billSvc, connect.WithInterceptors(
		middleware.RequireAuth(tokens),
		middleware.LoggingInterceptor(),
	)))
	mux.Handle(api.NewAuthServiceHandler(authSvc, connect.WithInterceptors(
		middleware.LoggingInterceptor(),
	)))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	web := router.New(router.Config{
		Store:    router.ClientStore(client),
		Accounts: client,
		Sessions: session.NewManager(tokens, cfg.SecureCookies),
		Receipts: localReceipts,
		Logger:   logger,
	})
	mux.Handle("/", web.Routes())

	metrics := middleware.NewMetrics(reg)
	srv := &http.Server{
		// h2c for HTTP/2 without TLS (Connect clients)
		Handler:           h2c.NewHandler(middleware.Logging(metrics.Wrap(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "address", ln.Addr().String(), "api_url", apiURL)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openReceipts creates the configured receipt storage. The handler is
// non-nil for the local backend, which this server serves itself.
func openReceipts(ctx context.Context, cfg *config.Config) (receipts.Storage, http.Handler, error) {
	switch cfg.ReceiptsBackend {
	case config.BackendS3:
		s3, err := receipts.NewS3(ctx, cfg.S3)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize S3 receipts: %w", err)
		}
		slog.Info("Receipts stored in S3", "bucket", cfg.S3.Bucket, "endpoint", cfg.S3.Endpoint)
		return s3, nil, nil
	default:
		local, err := receipts.NewLocal(cfg.ReceiptsDir, "")
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Receipts stored on disk", "path", cfg.ReceiptsDir)
		return local, local.Handler(), nil
	}
}

// loopbackURL is the URL this process reaches its own API on.
func loopbackURL(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.IP.IsUnspecified() {
		port := 80
		if ok {
			port = tcp.Port
		}
		return fmt.Sprintf("http://127.0.0.1:%d", port)
	}
	return "http://" + tcp.String()
}
