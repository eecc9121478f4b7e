package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

type Config struct {
	GRPCHost           string        `validate:"omitempty,hostname|ip"`
	GRPCPort           int           `validate:"gte=1,lte=65535"`
	GRPCRequestTimeout time.Duration `validate:"gt=0"`
	ShutdownTimeout    time.Duration `validate:"gt=0"`
	LogLevel           string        `validate:"oneof=debug info warn warning error"`

	DatabaseDriver     string `validate:"oneof=sqlite postgres"`
	DatabasePath       string `validate:"required_if=DatabaseDriver sqlite"`
	DatabaseURL        string `validate:"required_if=DatabaseDriver postgres"`
	DBMaxOpenConns     int    `validate:"gte=1"`
	DBMaxIdleConns     int    `validate:"gte=0"`
	DBConnMaxLifetime  time.Duration
	DBConnMaxIdleTime  time.Duration
	DBBusyTimeout      time.Duration
	SlowQueryThreshold time.Duration
}

func (c Config) GRPCAddr() string {
	return net.JoinHostPort(c.GRPCHost, strconv.Itoa(c.GRPCPort))
}

func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CUSTOMER_MANAGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("grpc.host", "127.0.0.1")
	v.SetDefault("grpc.port", 50061)
	v.SetDefault("grpc.addr", "")
	v.SetDefault("grpc.request_timeout", "10s")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "customer-manager.db")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.conn_max_idle_time", "5m")
	v.SetDefault("database.busy_timeout", "5s")
	v.SetDefault("database.slow_query_threshold", "200ms")
	v.SetDefault("shutdown.timeout", "10s")
	v.SetDefault("log.level", "info")

	_ = v.BindEnv("grpc.host", "CUSTOMER_MANAGER_GRPC_HOST", "GRPC_HOST")
	_ = v.BindEnv("grpc.port", "CUSTOMER_MANAGER_GRPC_PORT", "GRPC_PORT", "PORT")
	_ = v.BindEnv("grpc.addr", "CUSTOMER_MANAGER_GRPC_ADDR", "GRPC_ADDR")
	_ = v.BindEnv("grpc.request_timeout", "CUSTOMER_MANAGER_GRPC_REQUEST_TIMEOUT")
	_ = v.BindEnv("database.driver", "CUSTOMER_MANAGER_DATABASE_DRIVER")
	_ = v.BindEnv("database.path", "CUSTOMER_MANAGER_DATABASE_PATH")
	_ = v.BindEnv("database.url", "CUSTOMER_MANAGER_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("database.max_open_conns", "CUSTOMER_MANAGER_DATABASE_MAX_OPEN_CONNS")
	_ = v.BindEnv("database.max_idle_conns", "CUSTOMER_MANAGER_DATABASE_MAX_IDLE_CONNS")
	_ = v.BindEnv("database.conn_max_lifetime", "CUSTOMER_MANAGER_DATABASE_CONN_MAX_LIFETIME")
	_ = v.BindEnv("database.conn_max_idle_time", "CUSTOMER_MANAGER_DATABASE_CONN_MAX_IDLE_TIME")
	_ = v.BindEnv("database.busy_timeout", "CUSTOMER_MANAGER_DATABASE_BUSY_TIMEOUT")
	_ = v.BindEnv("database.slow_query_threshold", "CUSTOMER_MANAGER_DATABASE_SLOW_QUERY_THRESHOLD")
	_ = v.BindEnv("shutdown.timeout", "CUSTOMER_MANAGER_SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT")
	_ = v.BindEnv("log.level", "CUSTOMER_MANAGER_LOG_LEVEL", "LOG_LEVEL")

	var cfg Config
	for key, dst := range map[string]*time.Duration{
		"shutdown.timeout":              &cfg.ShutdownTimeout,
		"grpc.request_timeout":          &cfg.GRPCRequestTimeout,
		"database.conn_max_lifetime":    &cfg.DBConnMaxLifetime,
		"database.conn_max_idle_time":   &cfg.DBConnMaxIdleTime,
		"database.busy_timeout":         &cfg.DBBusyTimeout,
		"database.slow_query_threshold": &cfg.SlowQueryThreshold,
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return Config{}, fmt.Errorf("config %s: %w", key, err)
		}
		*dst = d
	}

	if addr := strings.TrimSpace(v.GetString("grpc.addr")); addr != "" {
		host, portStr, err := net.SplitHostPort(addr)
		if err == nil {
			if host != "" {
				v.Set("grpc.host", host)
			}
			if port, err := strconv.Atoi(portStr); err == nil {
				v.Set("grpc.port", port)
			}
		}
	}

	cfg.GRPCHost = strings.TrimSpace(v.GetString("grpc.host"))
	cfg.GRPCPort = v.GetInt("grpc.port")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(v.GetString("log.level")))
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(v.GetString("database.driver")))
	cfg.DatabasePath = strings.TrimSpace(v.GetString("database.path"))
	cfg.DatabaseURL = v.GetString("database.url")
	cfg.DBMaxOpenConns = v.GetInt("database.max_open_conns")
	cfg.DBMaxIdleConns = v.GetInt("database.max_idle_conns")

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
