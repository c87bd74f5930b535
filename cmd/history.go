package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"tidy/internal/history"
	"tidy/internal/util"
)

var (
	historyLimit  int
	historyEvents bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent moves and backend fallbacks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if appInstance.History == nil {
			fmt.Println("history database is not available")
			return nil
		}
		if historyEvents {
			return printEvents(appInstance.History, historyLimit)
		}
		return printMoves(appInstance.History, historyLimit)
	},
}

func printMoves(store *history.Store, limit int) error {
	moves, err := store.RecentMoves(limit)
	if err != nil {
		return fmt.Errorf("listing moves: %w", err)
	}
	if len(moves) == 0 {
		fmt.Println("no recorded moves")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"When", "Source", "Target", "Category", "Status"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, m := range moves {
		table.Append([]string{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			util.Shorten(m.Source, 48),
			util.Shorten(m.Target, 48),
			m.Category,
			m.Status,
		})
	}
	table.Render()
	return nil
}

func printEvents(store *history.Store, limit int) error {
	events, err := store.RecentEvents(limit)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("no recorded fallback events")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"When", "Backend", "Purpose", "Detail"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, e := range events {
		table.Append([]string{
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Backend,
			e.Purpose,
			util.Shorten(e.Detail, 60),
		})
	}
	table.Render()
	return nil
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyEvents, "events", false, "show backend fallback events instead of moves")
	rootCmd.AddCommand(historyCmd)
}
