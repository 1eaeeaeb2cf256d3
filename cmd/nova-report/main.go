// nova-report writes the XLSX report for the currently stored transactions
// without going through the HTTP server. Useful for backups and cron jobs.
package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"nova/internal/cli"
	applog "nova/internal/log"
	"nova/internal/store"
	"nova/internal/xlsx"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	result := cli.InitBackend(logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	st := store.New(result.KV)
	if err := st.Load(context.Background()); err != nil {
		var perr *store.PersistenceError
		if !errors.As(err, &perr) {
			logger.Error("Failed to load state", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Warn("Persisted state partially unreadable, exporting what loaded",
			"key", perr.Key, applog.FieldError, perr.Err)
	}

	txs := st.Transactions()
	path := filepath.Join(cfg.ExportDir, xlsx.Filename(time.Now()))

	f, err := os.Create(path)
	if err != nil {
		logger.Error("Failed to create report file", applog.FieldError, err, "path", path)
		os.Exit(1)
	}
	defer f.Close()

	if err := xlsx.Write(f, txs); err != nil {
		logger.Error("Failed to write report", applog.FieldError, err, "path", path)
		os.Exit(1)
	}

	logger.Info("Report written",
		applog.FieldOperation, applog.OpExport,
		"path", path,
		"rows", len(txs))
}
