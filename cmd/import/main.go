// Command import loads every sales export in a directory for one user.
//
//	import -dir ./exports -user seller@example.com
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/InstaDash/internal/config"
	"github.com/JonMunkholm/InstaDash/internal/core"
	"github.com/JonMunkholm/InstaDash/internal/importer"
	"github.com/JonMunkholm/InstaDash/internal/logging"
)

func main() {
	dir := flag.String("dir", ".", "directory containing sales exports")
	user := flag.String("user", "", "user id the sales belong to (default: DEFAULT_USER_ID)")
	encoding := flag.String("encoding", "", "text encoding: auto, utf-8 or windows-1252 (default: UPLOAD_ENCODING)")
	stop := flag.Bool("stop-on-error", false, "abort at the first file that fails")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	userID := *user
	if userID == "" {
		userID = cfg.Security.DefaultUserID
	}
	if userID == "" {
		slog.Error("no user id: pass -user or set DEFAULT_USER_ID")
		os.Exit(2)
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	store, closeStore, err := core.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	service, err := core.NewService(store, cfg, nil)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	folder := &importer.Folder{
		Service:     service,
		UserID:      userID,
		Root:        *dir,
		Encoding:    *encoding,
		FileTimeout: cfg.Upload.Timeout,
		StopOnError: *stop,
	}
	results, runErr := folder.Run(ctx)

	imported, total, failed := importer.Totals(results)
	slog.Info("import finished",
		"dir", *dir,
		"files", len(results),
		"failed_files", failed,
		"imported", imported,
		"total_rows", total,
	)

	if runErr != nil {
		slog.Error("import aborted", "error", runErr)
		closeStore()
		os.Exit(1)
	}
	if failed > 0 {
		closeStore()
		os.Exit(1)
	}
}
