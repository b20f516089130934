package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
storage:
  driver: sqlite
sqlite:
  path: /tmp/lovify-test.db
matching:
  feed_limit: 20
  reverse_read_retries: 5
limits:
  free_likes_per_day: 40
ads:
  swipe_interstitial_every: 7
cassandra:
  hosts: ["10.0.0.1", "10.0.0.2"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Storage.Driver != DriverSQLite {
		t.Fatalf("unexpected storage driver: %s", cfg.Storage.Driver)
	}
	if cfg.SQLite.Path != "/tmp/lovify-test.db" {
		t.Fatalf("unexpected sqlite path: %s", cfg.SQLite.Path)
	}
	if cfg.Matching.FeedLimit != 20 {
		t.Fatalf("unexpected feed limit: %d", cfg.Matching.FeedLimit)
	}
	if cfg.Matching.ReverseReadRetries != 5 {
		t.Fatalf("unexpected reverse read retries: %d", cfg.Matching.ReverseReadRetries)
	}
	if cfg.Limits.FreeLikesPerDay != 40 {
		t.Fatalf("unexpected free likes/day: %d", cfg.Limits.FreeLikesPerDay)
	}
	if cfg.Ads.SwipeInterstitialEvery != 7 {
		t.Fatalf("unexpected interstitial cadence: %d", cfg.Ads.SwipeInterstitialEvery)
	}
	if len(cfg.Cassandra.Hosts) != 2 {
		t.Fatalf("unexpected cassandra hosts: %v", cfg.Cassandra.Hosts)
	}

	if cfg.Matching.RetryBackoff != 50*time.Millisecond {
		t.Fatalf("retry_backoff default should stay 50ms, got %s", cfg.Matching.RetryBackoff)
	}
	if cfg.Reconcile.Interval != 30*time.Second {
		t.Fatalf("reconcile interval default should stay 30s, got %s", cfg.Reconcile.Interval)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.Storage.Driver != DriverPostgres {
		t.Fatalf("unexpected default driver: %s", cfg.Storage.Driver)
	}
	if cfg.Limits.FreeLikesPerDay != 100 {
		t.Fatalf("unexpected default free likes/day: %d", cfg.Limits.FreeLikesPerDay)
	}
	if cfg.Ads.SwipeInterstitialEvery != 5 {
		t.Fatalf("unexpected default interstitial cadence: %d", cfg.Ads.SwipeInterstitialEvery)
	}
	if cfg.Matching.FeedLimit != 50 {
		t.Fatalf("unexpected default feed limit: %d", cfg.Matching.FeedLimit)
	}
}

func TestEnvOverridesWin(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STORAGE_DRIVER", "Mongo")
	t.Setenv("CASSANDRA_HOSTS", "c1, c2 ,,c3")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("FREE_LIKES_PER_DAY", "0")
	t.Setenv("S3_REGION", "ap-south-1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Driver != DriverMongo {
		t.Fatalf("unexpected driver: %s", cfg.Storage.Driver)
	}
	if len(cfg.Cassandra.Hosts) != 3 || cfg.Cassandra.Hosts[1] != "c2" {
		t.Fatalf("unexpected cassandra hosts: %v", cfg.Cassandra.Hosts)
	}
	if cfg.Matching.StoreTimeout != 2*time.Second {
		t.Fatalf("unexpected store timeout: %s", cfg.Matching.StoreTimeout)
	}
	if cfg.Limits.FreeLikesPerDay != 0 {
		t.Fatalf("unexpected free likes/day: %d", cfg.Limits.FreeLikesPerDay)
	}
	if cfg.S3.Region != "ap-south-1" {
		t.Fatalf("unexpected s3 region: got %q want %q", cfg.S3.Region, "ap-south-1")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STORAGE_DRIVER", "etcd")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for unknown storage driver")
	}
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "prod")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error when jwt secret is left at default in production")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("RETRY_BACKOFF", "soon")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected parse error for RETRY_BACKOFF")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"HTTP_CORS_ORIGINS",
		"LOG_LEVEL",
		"STORAGE_DRIVER",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"REDIS_POOL_SIZE",
		"SQLITE_PATH",
		"DYNAMODB_REGION",
		"DYNAMODB_ENDPOINT",
		"DYNAMODB_TABLE_PREFIX",
		"MONGO_URI",
		"MONGO_DATABASE",
		"CASSANDRA_HOSTS",
		"CASSANDRA_KEYSPACE",
		"CASSANDRA_CONSISTENCY",
		"CASSANDRA_TIMEOUT",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_REGION",
		"S3_BUCKET",
		"S3_USE_SSL",
		"S3_PRESIGN_TTL",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"FEED_LIMIT",
		"REVERSE_READ_RETRIES",
		"RETRY_BACKOFF",
		"STORE_TIMEOUT",
		"FREE_LIKES_PER_DAY",
		"SWIPES_PER_MINUTE",
		"SWIPES_PER_10S",
		"LIMITS_TIMEZONE",
		"ADS_SWIPE_INTERSTITIAL_EVERY",
		"RECONCILE_INTERVAL",
		"RECONCILE_BATCH_SIZE",
	} {
		t.Setenv(key, "")
	}
}
