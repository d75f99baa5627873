package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/database"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/spf13/cobra"
)

var (
	listOwnerFlag  string
	listSearchFlag string
	listStatusFlag string
)

// ListCmd prints an owner's links, newest first.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the links of an owner.",
	Run: func(_ *cobra.Command, _ []string) {
		db, linkService := openLinkService()
		defer database.Close(db)

		ctx := context.Background()
		links, err := linkService.ListLinksByOwner(ctx, listOwnerFlag, models.LinkFilter{
			Search: listSearchFlag,
			Status: models.LinkStatus(listStatusFlag),
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		summary, err := linkService.OwnerSummary(ctx, listOwnerFlag)
		if err != nil {
			cmd.Log.Error().Err(err).Msg("failed to compute summary")
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tACTIVE\tCLICKS\tCREATED\tORIGINAL URL")
		for _, l := range links {
			fmt.Fprintf(w, "%s\t%t\t%d\t%s\t%s\n", l.Slug, l.IsActive, l.Clicks, l.CreatedAt.Format("2006-01-02 15:04"), l.OriginalURL)
		}
		_ = w.Flush()

		fmt.Printf("\n%d link(s), %d active, %d click(s) in total\n", summary.TotalLinks, summary.ActiveLinks, summary.TotalClicks)
	},
}

func init() {
	ListCmd.Flags().StringVar(&listOwnerFlag, "owner", "", "Owner id whose links are listed")
	ListCmd.Flags().StringVar(&listSearchFlag, "search", "", "Filter by title, URL or slug")
	ListCmd.Flags().StringVar(&listStatusFlag, "status", "all", "all, active or inactive")
	_ = ListCmd.MarkFlagRequired("owner")

	cmd.RootCmd.AddCommand(ListCmd)
}
