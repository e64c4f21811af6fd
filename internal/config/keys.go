package config

const (
	KeyGitHubToken      = "github_token"
	KeyGitHubRepository = "github_repository"
	KeyGitHubAPIURL     = "github_api_url"
	KeyGitHubEventPath  = "github_event_path"
	KeyPRNumber         = "pr_number"
	KeyWebhookURL       = "webhook_url"
	KeyLookback         = "lookback"
	KeyMinScore         = "min_score"
	KeyMinFileOverlap   = "min_file_overlap"
	KeyTopN             = "top_n"
	KeyFileWeight       = "file_weight"
	KeyTextWeight       = "text_weight"
	KeyFetchConcurrency = "fetch_concurrency"
	KeyStrictOrdering   = "strict_ordering"
	KeyHTTPRetries      = "http_retries"
	KeyHTTPTimeout      = "http_timeout"
	KeyPostgresURL      = "postgres_url"
	KeyAutoMigrate      = "auto_migrate"
	KeyDBDebug          = "db_debug"
	KeyMigrationsDir    = "db_migrations_dir"
	KeyLogLevel         = "log_level"
)
