package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load(".env")
	// Workflows written for the Slack integration export SLACK_WEBHOOK_URL.
	_ = viper.BindEnv(KeyWebhookURL, "WEBHOOK_URL", "SLACK_WEBHOOK_URL")
	if root != nil {
		_ = viper.BindPFlags(root.PersistentFlags())
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyLookback, "168h")
	viper.SetDefault(KeyMinScore, 0.5)
	viper.SetDefault(KeyMinFileOverlap, 0.4)
	viper.SetDefault(KeyTopN, 3)
	viper.SetDefault(KeyFileWeight, 0.6)
	viper.SetDefault(KeyTextWeight, 0.4)
	viper.SetDefault(KeyFetchConcurrency, 4)
	viper.SetDefault(KeyStrictOrdering, false)
	viper.SetDefault(KeyHTTPRetries, 3)
	viper.SetDefault(KeyHTTPTimeout, "30s")
	viper.SetDefault(KeyAutoMigrate, false)
	viper.SetDefault(KeyDBDebug, false)
	viper.SetDefault(KeyMigrationsDir, "")
	viper.SetDefault(KeyLogLevel, "info")
}

func GitHubToken() string      { return viper.GetString(KeyGitHubToken) }
func GitHubRepository() string { return viper.GetString(KeyGitHubRepository) }
func GitHubAPIURL() string     { return viper.GetString(KeyGitHubAPIURL) }
func GitHubEventPath() string  { return viper.GetString(KeyGitHubEventPath) }
func PRNumber() int            { return viper.GetInt(KeyPRNumber) }
func WebhookURL() string       { return viper.GetString(KeyWebhookURL) }
func Lookback() string         { return viper.GetString(KeyLookback) }
func MinScore() float64        { return viper.GetFloat64(KeyMinScore) }
func MinFileOverlap() float64  { return viper.GetFloat64(KeyMinFileOverlap) }
func TopN() int                { return viper.GetInt(KeyTopN) }
func FileWeight() float64      { return viper.GetFloat64(KeyFileWeight) }
func TextWeight() float64      { return viper.GetFloat64(KeyTextWeight) }
func FetchConcurrency() int    { return viper.GetInt(KeyFetchConcurrency) }
func StrictOrdering() bool     { return viper.GetBool(KeyStrictOrdering) }
func HTTPRetries() int         { return viper.GetInt(KeyHTTPRetries) }
func HTTPTimeout() string      { return viper.GetString(KeyHTTPTimeout) }
func PostgresURL() string      { return viper.GetString(KeyPostgresURL) }
func AutoMigrate() bool        { return viper.GetBool(KeyAutoMigrate) }
func DBDebug() bool            { return viper.GetBool(KeyDBDebug) }
func MigrationsDir() string    { return viper.GetString(KeyMigrationsDir) }
func LogLevel() string         { return viper.GetString(KeyLogLevel) }
