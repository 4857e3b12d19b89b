package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"streamerverse/api"
	"streamerverse/config"
	"streamerverse/handlers"
	"streamerverse/internal/database"
	"streamerverse/services/accounts"
	"streamerverse/services/history"
	"streamerverse/services/metadata"
	"streamerverse/services/preferences"
	"streamerverse/services/sessions"
	"streamerverse/services/watchlist"
	"streamerverse/utils"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🚀 Streamer Verse Backend Starting...")

	// Determine config path (env or default)
	configPath := os.Getenv("STREAMERVERSE_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			multiWriter := io.MultiWriter(os.Stdout, fileWriter)
			log.SetOutput(multiWriter)
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	if settings.Providers.YouTubeAPIKey == "" {
		fmt.Println("⚠️  No YouTube API key configured; YouTube search will fail until one is set.")
	}
	if settings.Providers.TMDBAPIKey == "" {
		fmt.Println("⚠️  No TMDB API key configured; movie/TV search will fail until one is set.")
	}

	// Open database and run migrations
	db, err := database.Open(settings.Database.Path)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Construct services
	accountsSvc := accounts.NewService(database.NewUserRepository(db.Connection()))
	sessionsSvc := sessions.NewService()
	watchlistSvc := watchlist.NewService(database.NewWatchlistRepository(db.Connection()))
	historySvc := history.NewService(database.NewHistoryRepository(db.Connection()))
	metadataSvc := metadata.NewService(
		settings.Providers.YouTubeAPIKey,
		settings.Providers.TMDBAPIKey,
		settings.Providers.VidSrcDomain,
		time.Duration(settings.Cache.SearchTTLMinutes)*time.Minute,
	)
	preferencesSvc, err := preferences.NewService(afero.NewOsFs(), settings.Cache.Directory)
	if err != nil {
		log.Fatalf("failed to init preferences store: %v", err)
	}

	// Bootstrap an admin account on first run so the instance is usable
	// before anyone registers through the UI.
	if count, err := accountsSvc.Count(); err != nil {
		log.Fatalf("failed to check account count: %v", err)
	} else if count == 0 {
		adminPassword, err := utils.GeneratePassword()
		if err != nil {
			log.Fatalf("failed to generate admin password: %v", err)
		}
		if _, err := accountsSvc.Register("admin", adminPassword); err != nil {
			log.Fatalf("failed to create admin account: %v", err)
		}
		fmt.Printf("🔑 Created admin account: username admin, password %s\n", adminPassword)
		fmt.Println("📱 Log in with these credentials and change the password.")
	}

	// Register API routes
	r := utils.NewRouter()
	api.Register(r, api.Deps{
		Auth:        handlers.NewAuthHandler(accountsSvc, sessionsSvc),
		Videos:      handlers.NewVideosHandler(metadataSvc),
		Watchlist:   handlers.NewWatchlistHandler(watchlistSvc),
		History:     handlers.NewHistoryHandler(historySvc),
		Preferences: handlers.NewPreferencesHandler(preferencesSvc),
		Images:      handlers.NewImageHandler(settings.Cache.Directory),
		SessionAuth: api.SessionAuthMiddleware(sessionsSvc),
	})

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
