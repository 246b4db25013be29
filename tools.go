package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/period"
	"github.com/spf13/cobra"
)

var periodCmd = &cobra.Command{
	Use:     "period <text>...",
	Short:   "Show how period text is parsed into dates",
	Example: `  portfolio period "8 Months: January - August 2021" "Jan 2022 - Present"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		type result struct {
			Text string `json:"period"`
			period.Range
			Parsed  bool `json:"parsed"`
			Ongoing bool `json:"ongoing"`
		}
		out := make([]result, 0, len(args))
		for _, text := range args {
			r := period.Parse(text)
			out = append(out, result{Text: text, Range: r, Parsed: !r.Empty(), Ongoing: r.Ongoing()})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Read a password from stdin and print its hash for OWNER_PASSWORD_HASH",
	Long: `Reads one line from stdin and prints a bcrypt hash using BCRYPT_COST and
PASSWORD_PEPPER from the environment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cost := auth.DefaultCost
		pepper := os.Getenv("PASSWORD_PEPPER")
		if cfg, err := config.Load(); err == nil {
			cost = cfg.BcryptCost
		}
		passwords, err := auth.NewPasswords(cost, pepper)
		if err != nil {
			return err
		}

		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading password: %w", err)
		}
		pw := strings.TrimRight(line, "\r\n")
		if pw == "" {
			return errors.New("empty password")
		}

		hash, err := passwords.Hash(pw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(periodCmd, hashPasswordCmd)
}
