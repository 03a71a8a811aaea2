package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zeuyel/MathImage/internal/config"
	"github.com/Zeuyel/MathImage/internal/data/db"
)

// HistoryCommand prints recent probe outcomes from the local database
func HistoryCommand(store *config.Store) *cobra.Command {
	var (
		limit int
		prune time.Duration
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent connection test and model fetch outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := db.NewHistoryStore(store.ConfigDir())
			if err != nil {
				return fmt.Errorf("failed to open history database: %w", err)
			}
			defer history.Close()

			if prune > 0 {
				if err := history.Prune(prune); err != nil {
					return fmt.Errorf("failed to prune history: %w", err)
				}
			}

			records, err := history.Recent(limit)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No history recorded yet")
				return nil
			}

			for _, record := range records {
				status := "FAIL"
				if record.Success {
					status = "ok"
				}
				detail := record.Message
				if record.Operation == db.OpListModels && record.Success {
					detail = fmt.Sprintf("%d models", record.ModelsCount)
				}
				fmt.Printf("%s  %-15s %-4s %4dms  %s  %s\n",
					record.CreatedAt.Format("2006-01-02 15:04:05"),
					record.Operation, status, record.LatencyMs,
					record.BaseURL, detail)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum records to show")
	cmd.Flags().DurationVar(&prune, "prune", 0, "delete records older than this duration first")

	return cmd
}
