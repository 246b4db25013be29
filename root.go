package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site",
	Long:  "Serves the portfolio site and its admin area, and imports seed content.",

	// Plain `portfolio` runs the server.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func setupLogger(dbg bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if dbg {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if dbg && isatty.IsTerminal(os.Stdout.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.Debug = debug
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*store.SQLStore, error) {
	st, err := store.Open(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// buildAuth sets up owner login. Without a configured password hash it
// falls back to OWNER_PASSWORD, and failing that to a random password that is
// only printed in debug mode.
func buildAuth(cfg *config.Config) (*auth.Authenticator, error) {
	passwords, err := auth.NewPasswords(cfg.BcryptCost, cfg.PasswordPepper)
	if err != nil {
		return nil, err
	}

	hash := cfg.OwnerPasswordHash
	if hash == "" {
		pw := cfg.OwnerPassword
		if pw == "" {
			if pw, err = auth.RandomSecret(); err != nil {
				return nil, err
			}
			log.Warn().Msg("No owner password configured; set OWNER_PASSWORD_HASH (see `portfolio hash-password`)")
			if cfg.Debug || gin.Mode() == gin.DebugMode {
				log.Debug().Str("password", pw).Msg("Generated owner password (dev only)")
			}
		} else {
			log.Warn().Msg("Using plain OWNER_PASSWORD; prefer OWNER_PASSWORD_HASH")
		}
		if hash, err = passwords.Hash(pw); err != nil {
			return nil, err
		}
	}

	if err := cfg.EnsureJWTSecret(auth.RandomSecret); err != nil {
		return nil, err
	}
	if cfg.JWTSecretGenerated {
		log.Warn().Msg("JWT_SECRET not set; sessions will not survive a restart")
	}
	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		return nil, err
	}

	owner := auth.Owner{ID: cfg.OwnerID, Username: cfg.OwnerUsername, PasswordHash: hash}
	return auth.NewAuthenticator(owner, passwords, tokens), nil
}
