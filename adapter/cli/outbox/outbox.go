package outbox

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/catalog/adapter/cli"
	"github.com/spf13/cobra"
)

// Cmd is the outbox command group
var Cmd = &cobra.Command{
	Use:   "outbox",
	Short: "Inspect and repair the event outbox",
	Long: `Every product change is stored as an event in the outbox before it is
published. These commands relay pending events, inspect dead letters and
put them back in the queue.`,
}

func init() {
	Cmd.AddCommand(deadCmd)
	Cmd.AddCommand(requeueCmd)
	Cmd.AddCommand(relayCmd)
	Cmd.AddCommand(cleanupCmd)
}

func requireOutbox() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil || app.OutboxRepo == nil || app.OutboxProcessor == nil {
		return nil, errors.New("outbox is not available: check DATABASE_URL or SQLITE_PATH")
	}
	return app, nil
}

var deadLimit int

var deadCmd = &cobra.Command{
	Use:   "dead",
	Short: "List dead-lettered events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireOutbox()
		if err != nil {
			return err
		}

		msgs, err := app.OutboxRepo.DeadLettered(cmd.Context(), deadLimit)
		if err != nil {
			return fmt.Errorf("failed to list dead letters: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(msgs) == 0 {
			fmt.Fprintln(out, "No dead-lettered events.")
			return nil
		}

		fmt.Fprintf(out, "Dead-lettered events (%d):\n", len(msgs))
		fmt.Fprintln(out, strings.Repeat("-", 70))
		for _, m := range msgs {
			reason := ""
			if m.DeadLetterReason != nil {
				reason = *m.DeadLetterReason
			}
			fmt.Fprintf(out, "#%-6d %-32s retries: %d\n", m.ID, m.RoutingKey, m.RetryCount)
			fmt.Fprintf(out, "        aggregate: %s\n", m.AggregateID)
			if reason != "" {
				fmt.Fprintf(out, "        reason: %s\n", reason)
			}
		}
		return nil
	},
}

var requeueCmd = &cobra.Command{
	Use:   "requeue [message-id]",
	Short: "Put a dead-lettered event back in the queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireOutbox()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid message ID %q", args[0])
		}

		if err := app.OutboxRepo.Requeue(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to requeue message: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Requeued message #%d\n", id)
		return nil
	},
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Publish all pending events now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireOutbox()
		if err != nil {
			return err
		}

		published, err := app.OutboxProcessor.Drain(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to relay events: %w", err)
		}

		stats := app.OutboxProcessor.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Published %d events\n", published)
		if stats.FailedCount > 0 || stats.DeadCount > 0 {
			fmt.Fprintf(out, "  failed: %d, dead-lettered: %d\n", stats.FailedCount, stats.DeadCount)
		}
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete published events past the retention period",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireOutbox()
		if err != nil {
			return err
		}

		deleted, err := app.OutboxProcessor.Cleanup(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to clean up outbox: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d published events\n", deleted)
		return nil
	},
}

func init() {
	deadCmd.Flags().IntVarP(&deadLimit, "limit", "n", 20, "maximum number of events to show")
}
