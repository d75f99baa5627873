package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/database"
	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/spf13/cobra"
)

// StatsCmd représente la commande 'stats'
var StatsCmd = &cobra.Command{
	Use:   "stats [slug]",
	Short: "Get statistics for a short link",
	Long:  `Get the click counter and recorded click events for the given slug.`,
	Args:  cobra.ExactArgs(1),
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(_ *cobra.Command, args []string) {
	slug := args[0]

	db, linkService := openLinkService()
	defer database.Close(db)

	link, recorded, err := linkService.GetLinkStats(context.Background(), slug)
	if err != nil {
		if errors.Is(err, customerrors.ErrNotFound) {
			fmt.Printf("Error: slug '%s' not found\n", slug)
		} else {
			cmd.Log.Error().Err(err).Str("slug", slug).Msg("failed to retrieve statistics")
		}
		os.Exit(1)
	}

	state := "active"
	if !link.IsActive {
		state = "inactive"
	}

	fmt.Printf("Statistics for slug: %s\n", link.Slug)
	fmt.Printf("Short URL: %s\n", link.ShortURL)
	fmt.Printf("Original URL: %s\n", link.OriginalURL)
	fmt.Printf("State: %s\n", state)
	fmt.Printf("Total clicks: %d\n", link.Clicks)
	fmt.Printf("Recorded click events: %d\n", recorded)
	fmt.Printf("Created at: %s\n", link.CreatedAt.Format("2006-01-02 15:04:05"))
}
