package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/pixix4/customer-manager/internal/config"
	"github.com/pixix4/customer-manager/internal/service/manager"
	"github.com/pixix4/customer-manager/internal/store/sqlstore"
	grpcTransport "github.com/pixix4/customer-manager/internal/transport/grpc"
)

const startupTimeout = 30 * time.Second

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "customer-manager-server"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "customer-manager-server"),
	)
	slog.SetDefault(log)

	log.Info("starting", slog.String("grpc_addr", cfg.GRPCAddr()), slog.String("log_level", cfg.LogLevel))

	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStart()

	dbArgs := databaseLogArgs(cfg)
	log.Info("opening database", dbArgs...)
	db, err := sqlstore.Open(startCtx, sqlstore.Options{
		Driver:      cfg.DatabaseDriver,
		Path:        cfg.DatabasePath,
		URL:         cfg.DatabaseURL,
		BusyTimeout: cfg.DBBusyTimeout,
		Pool: sqlstore.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		},
	})
	if err != nil {
		log.Error("database open failed", append([]any{slog.Any("err", err)}, dbArgs...)...)
		os.Exit(1)
	}
	defer func() {
		if err := sqlstore.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	dbLog := log.With(slog.String("component", "sqlstore"))
	db.AddQueryHook(sqlstore.NewQueryLogHook(dbLog, cfg.SlowQueryThreshold))

	if err := sqlstore.Migrate(startCtx, db, dbLog); err != nil {
		log.Error("database migration failed", slog.Any("err", err))
		_ = sqlstore.Close(db)
		os.Exit(1)
	}
	cancelStart()

	svc := manager.NewService(manager.Repositories{
		Employees:    sqlstore.NewEmployeeRepo(db),
		Customers:    sqlstore.NewCustomerRepo(db),
		Appointments: sqlstore.NewAppointmentRepo(db),
		Preferences:  sqlstore.NewPreferenceRepo(db),
	})

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpcTransport.DefaultRequestTimeoutInterceptor(cfg.GRPCRequestTimeout),
			grpcTransport.RequestLogInterceptor(log),
		),
	)
	grpcTransport.RegisterCommandServiceServer(grpcServer, grpcTransport.NewCommandServer(svc, log))

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		_ = sqlstore.Close(db)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()

	log.Info("grpc server started", slog.String("grpc_addr", cfg.GRPCAddr()))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdown(log, grpcServer, cfg.ShutdownTimeout)
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("grpc server stopped with error", slog.Any("err", err))
			_ = sqlstore.Close(db)
			os.Exit(1)
		}
	}
}

func shutdown(log *slog.Logger, s *grpc.Server, timeout time.Duration) {
	log.Info("shutting down grpc server", slog.Duration("timeout", timeout))

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-timer.C:
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// databaseLogArgs describes the store without leaking credentials.
func databaseLogArgs(cfg config.Config) []any {
	if cfg.DatabaseDriver != sqlstore.DriverPostgres {
		path, err := sqlstore.ResolvePath(cfg.DatabasePath)
		if err != nil {
			path = cfg.DatabasePath
		}
		return []any{
			slog.String("db_driver", sqlstore.DriverSQLite),
			slog.String("db_path", path),
		}
	}

	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return []any{slog.String("db_driver", sqlstore.DriverPostgres), slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_driver", sqlstore.DriverPostgres),
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
