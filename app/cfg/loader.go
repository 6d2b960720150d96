package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Series configuration
	SettingsFile string `long:"settings" env:"SETTINGS_FILE" default:"./series.yaml" description:"YAML file describing the mirrored series"`
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./comicrelay.db" description:"SQLite database file"`
	Table        string `long:"table" env:"TABLE" description:"Series table name (defaults to the feed handle)"`

	// Retry configuration
	EmptyAttempts  int `long:"attempts" env:"EMPTY_ATTEMPTS" default:"75" description:"Times to re-poll the feed when no eligible items are found"`
	OutageAttempts int `long:"outage-attempts" env:"OUTAGE_ATTEMPTS" default:"60" description:"Times to retry when the feed itself is unreachable"`
	PollInterval   int `long:"poll-interval" env:"POLL_INTERVAL" default:"60" description:"Seconds between polls when no eligible items are found"`
	OutageInterval int `long:"outage-interval" env:"OUTAGE_INTERVAL" default:"60" description:"Seconds between retries when the feed is unreachable"`

	// Feed source configuration
	FeedBaseURL string `long:"feed-base-url" env:"FEED_BASE_URL" default:"https://nitter.net" description:"Base URL of the RSS bridge serving the account feed"`
	FeedLimit   int    `long:"feed-limit" env:"FEED_LIMIT" default:"20" description:"Maximum number of recent statuses to consider per poll"`

	// Imgur credentials
	ImgurClientID    string `long:"imgur-client-id" env:"IMGUR_CLIENT" description:"Imgur API client ID (required)" required:"true"`
	ImgurAccessToken string `long:"imgur-access-token" env:"IMGUR_ACCESS_TOKEN" description:"Imgur API access token (required)" required:"true"`

	// Reddit credentials
	RedditClientID     string `long:"reddit-client-id" env:"REDDIT_CLIENT_ID" description:"Reddit API client ID (required)" required:"true"`
	RedditClientSecret string `long:"reddit-client-secret" env:"REDDIT_CLIENT_SECRET" description:"Reddit API client secret (required)" required:"true"`
	RedditUsername     string `long:"reddit-username" env:"REDDIT_USERNAME" description:"Reddit account username (required)" required:"true"`
	RedditPassword     string `long:"reddit-password" env:"REDDIT_PASSWORD" description:"Reddit account password (required)" required:"true"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"comicrelay/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SettingsFile:       raw.SettingsFile,
		DBPath:             raw.DBPath,
		Table:              raw.Table,
		EmptyAttempts:      raw.EmptyAttempts,
		OutageAttempts:     raw.OutageAttempts,
		PollInterval:       raw.PollInterval,
		OutageInterval:     raw.OutageInterval,
		FeedBaseURL:        raw.FeedBaseURL,
		FeedLimit:          raw.FeedLimit,
		ImgurClientID:      raw.ImgurClientID,
		ImgurAccessToken:   raw.ImgurAccessToken,
		RedditClientID:     raw.RedditClientID,
		RedditClientSecret: raw.RedditClientSecret,
		RedditUsername:     raw.RedditUsername,
		RedditPassword:     raw.RedditPassword,
		UserAgent:          raw.UserAgent,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(cfg *Cfg) error {
	if cfg.EmptyAttempts < 0 || cfg.OutageAttempts < 0 {
		return fmt.Errorf("retry attempt bounds must not be negative")
	}
	if cfg.PollInterval <= 0 || cfg.OutageInterval <= 0 {
		return fmt.Errorf("retry intervals must be positive")
	}
	if cfg.FeedLimit <= 0 {
		return fmt.Errorf("feed limit must be positive")
	}
	return nil
}
