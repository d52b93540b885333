// Package main is the entry point for the Belfast Eats API server.
//
// main stays minimal: read configuration from the environment, build a
// logger, hand both to server.New, and block in Start. All real logic
// lives under internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/belfast-eats/internal/server"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/belfast-eats.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// Create the data directory if it does not exist yet.
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_SECRET must be a long random string, e.g.:
	//   JWT_SECRET=$(openssl rand -hex 32)
	// Tokens are the only authentication mechanism, so the server refuses
	// to start without one.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET not set — refusing to start")
		os.Exit(1)
	}

	jwtTTL := 3 * time.Hour
	if ttlStr := os.Getenv("JWT_TTL"); ttlStr != "" {
		parsed, err := time.ParseDuration(ttlStr)
		if err != nil || parsed <= 0 {
			logger.Error("invalid JWT_TTL value", slog.String("value", ttlStr))
			os.Exit(1)
		}
		jwtTTL = parsed
	}

	// If ADMIN_INVITE_CODE is unset, admin registration is disabled and
	// every admin-role registration attempt is rejected.
	adminInviteCode := os.Getenv("ADMIN_INVITE_CODE")
	if adminInviteCode == "" {
		logger.Warn("ADMIN_INVITE_CODE not set — admin registration is disabled")
	}

	// Comma-separated origin allowlist; the default mirrors the permissive
	// setup the API's web frontend expects.
	corsOrigins := []string{"*"}
	if originsStr := os.Getenv("CORS_ALLOWED_ORIGINS"); originsStr != "" {
		corsOrigins = corsOrigins[:0]
		for _, origin := range strings.Split(originsStr, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				corsOrigins = append(corsOrigins, origin)
			}
		}
	}

	cfg := server.Config{
		Port:            port,
		DBPath:          dbPath,
		JWTSecret:       jwtSecret,
		JWTTTL:          jwtTTL,
		AdminInviteCode: adminInviteCode,
		CORSOrigins:     corsOrigins,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
