package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Remote
		Database
		Snapshot
		Tasks
		Session
		Global
	}

	// HTTP configures the locally served operator console.
	HTTP struct {
		Port int32
		Host string
	}

	// Remote configures the authoritative catalog service.
	Remote struct {
		BaseURL string
		Timeout time.Duration
	}

	Database struct {
		Path string
	}

	// Snapshot configures the periodic full reload of the remote catalog
	// and ledger into the local state database.
	Snapshot struct {
		Enabled  bool
		Schedule string // cron format: "*/15 * * * *" = every 15 minutes
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	// Session configures the console's browser sessions, not the bearer
	// credential for the remote store (that lives in the settings slots).
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool
		CSRFSecret    string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8288)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("remote_base_url", DefaultRemoteBaseURL)
	v.SetDefault("remote_timeout", "15s")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("snapshot_enabled", true)
	v.SetDefault("snapshot_schedule", "*/15 * * * *")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "30s")
	v.SetDefault("task_timeout", "2m")
	v.SetDefault("task_release_after", "10m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Console session defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secure_cookies", true)
	v.SetDefault("session_csrf_secret", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Remote: Remote{
			BaseURL: v.GetString("REMOTE_BASE_URL"),
			Timeout: v.GetDuration("REMOTE_TIMEOUT"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Snapshot: Snapshot{
			Enabled:  v.GetBool("SNAPSHOT_ENABLED"),
			Schedule: v.GetString("SNAPSHOT_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
			CSRFSecret:    v.GetString("SESSION_CSRF_SECRET"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
