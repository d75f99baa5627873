package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/database"
	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/services"
	"github.com/spf13/cobra"
)

var (
	createOwnerFlag       string
	createURLFlag         string
	createAliasFlag       string
	createTitleFlag       string
	createDescriptionFlag string
	createSameTabFlag     bool
)

// CreateCmd représente la commande 'create'
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a short link for an owner.",
	Long: `Creates a short link. Without --alias a random code is generated.

Example:
  urlshortener create --owner=alice --url="https://go.dev/doc" --alias=godoc`,
	Run: func(_ *cobra.Command, _ []string) {
		db, linkService := openLinkService()
		defer database.Close(db)

		in := services.CreateLinkInput{
			OriginalURL: createURLFlag,
			Alias:       createAliasFlag,
			Title:       createTitleFlag,
			Description: createDescriptionFlag,
		}
		if createSameTabFlag {
			sameTab := false
			in.OpenInNewTab = &sameTab
		}

		link, err := linkService.CreateLink(context.Background(), createOwnerFlag, in)
		if err != nil {
			switch {
			case errors.Is(err, customerrors.ErrValidation):
				fmt.Printf("Error: %v\n", err)
			case errors.Is(err, customerrors.ErrSlugConflict):
				fmt.Printf("Error: alias %q is already in use\n", createAliasFlag)
			default:
				cmd.Log.Error().Err(err).Msg("failed to create short link")
			}
			os.Exit(1)
		}

		fmt.Println("Short link created:")
		fmt.Printf("ID: %s\n", link.ID)
		fmt.Printf("Slug: %s\n", link.Slug)
		fmt.Printf("Short URL: %s\n", link.ShortURL)
	},
}

func init() {
	CreateCmd.Flags().StringVar(&createOwnerFlag, "owner", "", "Owner id (token subject) of the new link")
	CreateCmd.Flags().StringVar(&createURLFlag, "url", "", "The long URL to shorten")
	CreateCmd.Flags().StringVar(&createAliasFlag, "alias", "", "Custom alias instead of a generated code")
	CreateCmd.Flags().StringVar(&createTitleFlag, "title", "", "Optional title")
	CreateCmd.Flags().StringVar(&createDescriptionFlag, "description", "", "Optional description")
	CreateCmd.Flags().BoolVar(&createSameTabFlag, "same-tab", false, "Open the destination in the same tab")

	_ = CreateCmd.MarkFlagRequired("owner")
	_ = CreateCmd.MarkFlagRequired("url")

	cmd.RootCmd.AddCommand(CreateCmd)
}
