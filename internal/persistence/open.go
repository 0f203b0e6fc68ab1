package persistence

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Backends lists every backend name Open accepts.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendPostgres, BackendMySQL}

// BackendConfig selects and configures a KV backend.
type BackendConfig struct {
	Type        string
	Dir         string
	Redis       RedisConfig
	DatabaseURL string
	MySQLDSN    string
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg BackendConfig) (KV, error) {
	switch cfg.Type {
	case "", BackendMemory:
		return NewMemoryKV(), nil
	case BackendFile:
		return NewFileKV(cfg.Dir)
	case BackendRedis:
		return NewRedisKV(ctx, cfg.Redis)
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres store requires a database URL")
		}
		return NewPostgresKV(ctx, cfg.DatabaseURL)
	case BackendMySQL:
		if cfg.MySQLDSN == "" {
			return nil, fmt.Errorf("mysql store requires a DSN")
		}
		return NewMySQLKV(ctx, cfg.MySQLDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Type)
	}
}
