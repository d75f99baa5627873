package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/auth"
	"github.com/spf13/cobra"
)

var (
	tokenOwnerFlag string
	tokenTTLFlag   time.Duration
)

// TokenCmd mints a bearer token signed with auth.jwt_secret, for local
// development and scripting against the API.
var TokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issues a development bearer token for an owner.",
	Run: func(_ *cobra.Command, _ []string) {
		token, err := auth.IssueToken(cmd.Cfg.Auth.JWTSecret, tokenOwnerFlag, tokenTTLFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	TokenCmd.Flags().StringVar(&tokenOwnerFlag, "owner", "", "Owner id placed in the token subject")
	TokenCmd.Flags().DurationVar(&tokenTTLFlag, "ttl", 24*time.Hour, "Token lifetime")
	_ = TokenCmd.MarkFlagRequired("owner")

	cmd.RootCmd.AddCommand(TokenCmd)
}
