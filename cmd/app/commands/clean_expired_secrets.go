package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/vaultcode/vaultcode/internal/app"
	"github.com/vaultcode/vaultcode/internal/config"
)

// RunCleanExpiredSecrets bulk-deletes secrets whose expiry time has passed.
// Dry-run mode reports the count without deleting anything. Retrieval already
// purges expired secrets lazily; this command reclaims rows nobody reads.
func RunCleanExpiredSecrets(ctx context.Context, dryRun bool, format string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("cleaning expired secrets", slog.Bool("dry_run", dryRun))

	defer closeContainer(container, logger)

	vaultUseCase, err := container.VaultUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize vault use case: %w", err)
	}

	count, err := vaultUseCase.PurgeExpired(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean expired secrets: %w", err)
	}

	if format == "json" {
		outputCleanExpiredJSON(count, dryRun)
	} else {
		outputCleanExpiredText(count, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanExpiredText outputs the result in human-readable text format.
func outputCleanExpiredText(count int64, dryRun bool) {
	if dryRun {
		fmt.Printf("Dry-run mode: Would delete %d expired secret(s)\n", count)
	} else {
		fmt.Printf("Successfully deleted %d expired secret(s)\n", count)
	}
}

// outputCleanExpiredJSON outputs the result in JSON format for machine consumption.
func outputCleanExpiredJSON(count int64, dryRun bool) {
	result := map[string]interface{}{
		"count":   count,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Println(string(jsonBytes))
}
