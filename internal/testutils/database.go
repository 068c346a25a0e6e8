package testutils

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"terminal-terrace/engtheory/internal/model"
	dbPkg "terminal-terrace/engtheory/packages/database"
)

// SetupTestDB creates an isolated, migrated test database.
// With TEST_DATABASE_DSN set it uses PostgreSQL and a throwaway schema per test,
// otherwise a SQLite file under t.TempDir().
// The handle is not wrapped in a transaction so tests can run concurrent writers.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	var db *gorm.DB
	if dsn := os.Getenv("TEST_DATABASE_DSN"); dsn != "" {
		db = setupPostgres(t, dsn)
	} else {
		var err error
		db, err = dbPkg.InitSQLite(&dbPkg.SQLiteConfig{
			Path:     filepath.Join(t.TempDir(), "test.db"),
			LogLevel: "silent",
		})
		if err != nil {
			t.Fatalf("Failed to open test database: %v", err)
		}
		t.Cleanup(func() {
			sqlDB, _ := db.DB()
			sqlDB.Close()
		})
	}

	// Initialize all tables
	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func setupPostgres(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	admin, err := dbPkg.InitPostgres(&dbPkg.PostgresConfig{DSN: dsn, LogLevel: "silent", MaxOpenConns: 2})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	schema := "test_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	if err := admin.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	db, err := dbPkg.InitPostgres(&dbPkg.PostgresConfig{
		DSN:          withSearchPath(dsn, schema),
		LogLevel:     "silent",
		MaxOpenConns: 20,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test schema: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		admin.Exec("DROP SCHEMA " + schema + " CASCADE")
		adminDB, _ := admin.DB()
		adminDB.Close()
	})
	return db
}

func withSearchPath(dsn, schema string) string {
	if !strings.Contains(dsn, "://") {
		return dsn + " search_path=" + schema
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&search_path=" + schema
	}
	return dsn + "?search_path=" + schema
}

// SetupTestRedis connects to db 15 at TEST_REDIS_ADDR (default localhost:6379).
// Returns nil when Redis is unreachable so callers can skip.
func SetupTestRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	client, err := dbPkg.OpenRedis(context.Background(), dbPkg.RedisOptions{
		Addrs:       []string{getEnvOrDefault("TEST_REDIS_ADDR", "localhost:6379")},
		DB:          15,
		PingTimeout: 500 * time.Millisecond,
	})
	if err != nil {
		return nil
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		_ = client.Close()
	})
	return client
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// MustCount counts rows of a model matching the optional condition.
func MustCount(t *testing.T, db *gorm.DB, value any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	q := db.Model(value)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", value, err)
	}
	return n
}

func uniqueSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

