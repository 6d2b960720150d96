package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comicrelay/comicrelay/app/cfg"
	"github.com/comicrelay/comicrelay/app/config"
	"github.com/comicrelay/comicrelay/app/database"
	"github.com/comicrelay/comicrelay/app/imgur"
	"github.com/comicrelay/comicrelay/app/pipeline"
	"github.com/comicrelay/comicrelay/app/reddit"
	"github.com/comicrelay/comicrelay/app/runner"
	"github.com/comicrelay/comicrelay/app/twitter"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting comicrelay", "version", appCfg.Version)

	series, err := config.Load(appCfg.SettingsFile)
	if err != nil {
		slog.Error("Failed to load series settings", "file", appCfg.SettingsFile, "error", err)
		os.Exit(1)
	}
	if appCfg.Table != "" {
		series.Table = appCfg.Table
	}
	slog.Info("Loaded series settings", "handle", series.Handle,
		"subreddit", series.Subreddit, "table", series.Table)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	feedClient := twitter.NewClient(httpClient, appCfg.FeedBaseURL, appCfg.UserAgent)
	mediaClient := imgur.NewClient(httpClient, imgur.DefaultBaseURL,
		appCfg.ImgurClientID, appCfg.ImgurAccessToken, appCfg.UserAgent)
	postClient := reddit.NewClient(httpClient, reddit.DefaultAuthBaseURL,
		reddit.DefaultAPIBaseURL, reddit.Credentials{
			ClientID:     appCfg.RedditClientID,
			ClientSecret: appCfg.RedditClientSecret,
			Username:     appCfg.RedditUsername,
			Password:     appCfg.RedditPassword,
		}, appCfg.UserAgent)

	engine := pipeline.NewEngine(series, feedClient, mediaClient, postClient,
		database.NewItemRepo(db), database.NewMetaRepo(db), appCfg.FeedLimit)

	drv := runner.New(engine, appCfg.EmptyAttempts, appCfg.OutageAttempts,
		time.Duration(appCfg.PollInterval)*time.Second,
		time.Duration(appCfg.OutageInterval)*time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	posts, err := drv.Run(ctx)
	switch {
	case errors.Is(err, runner.ErrExhausted):
		slog.Warn("No posts made within the retry bound", "series", series.Table)
	case err != nil:
		slog.Error("Run failed", "series", series.Table, "error", err)
		os.Exit(1)
	default:
		slog.Info("Run complete", "series", series.Table,
			"new_posts", len(posts), "posts", posts)
	}
}
