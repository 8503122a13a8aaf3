package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/devcamper/internal/auth"
	"github.com/kailas-cloud/devcamper/internal/config"
	"github.com/kailas-cloud/devcamper/internal/domain"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user",
		Long: "Mint an HS256 bearer token. The secret and lifetime come from the ENV config " +
			"unless --secret and --ttl are both given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" || ttl <= 0 {
				cfg, err := config.Load(config.GetEnv())
				if err != nil {
					return fmt.Errorf("load config (or pass --secret and --ttl): %w", err)
				}
				if secret == "" {
					secret = cfg.Auth.JWTSecret
				}
				if ttl <= 0 {
					ttl = time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
				}
			}

			tok, err := auth.NewToken([]byte(secret), userID, domain.Role(role), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "token for %s (%s) expires %s\n",
				userID, role, humanize.Time(time.Now().Add(ttl)))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id carried as the token subject")
	cmd.Flags().StringVar(&role, "role", string(domain.RolePublisher), "role: user, publisher or admin")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default: auth.jwt_secret from config)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: auth.token_ttl_hours from config)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
