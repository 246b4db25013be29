package main

import (
	"fmt"

	"github.com/Zachkp/portfolio/internal/migrate"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	seedPath  string
	seedOwner string
	dryRun    bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import portfolio content from a YAML seed file",
	Long: `Reads the seed file and upserts the about section, projects, experiences
and certificates for the owner. Experience periods are parsed into dates and
reported; use --dry-run to check a seed file without touching the database.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&seedPath, "seed", "seed.yaml", "path to the seed file")
	migrateCmd.Flags().StringVar(&seedOwner, "owner", "", "owner id (defaults to OWNER_ID)")
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without writing")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	owner := seedOwner
	if owner == "" {
		owner = cfg.OwnerID
	}

	seed, err := migrate.LoadSeed(seedPath)
	if err != nil {
		return err
	}

	var w migrate.Writer
	if !dryRun {
		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		w = st
	}

	report, err := migrate.Run(ctx, w, owner, seed, migrate.Options{DryRun: dryRun})
	if report != nil {
		printReport(report)
	}
	return err
}

func printReport(r *migrate.Report) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if r.DryRun {
		fmt.Printf("%s dry run, nothing was written\n\n", yellow("!"))
	}

	for _, s := range r.Sections {
		if s.Err != nil {
			fmt.Printf("%s %-13s %v\n", red("✗"), s.Name, s.Err)
			continue
		}
		fmt.Printf("%s %-13s %d\n", green("✓"), s.Name, s.Count)
	}

	if len(r.Periods) > 0 {
		fmt.Printf("\n%s PERIODS:\n", cyan("→"))
		for _, p := range r.Periods {
			fmt.Printf("  %s @ %s: %q → %s\n", p.Title, p.Company, p.Text, p.Range)
		}
	}

	if ongoing := r.Ongoing(); len(ongoing) > 0 {
		fmt.Printf("\n%s ONGOING:\n", green("●"))
		for _, p := range ongoing {
			fmt.Printf("  %s @ %s\n", p.Title, p.Company)
		}
	}

	if unparsed := r.Unparsed(); len(unparsed) > 0 {
		fmt.Printf("\n%s UNPARSED PERIODS:\n", yellow("⚠"))
		for _, p := range unparsed {
			fmt.Printf("  %s @ %s: %q\n", p.Title, p.Company, p.Text)
		}
	}

	if len(r.BadDates) > 0 {
		fmt.Printf("\n%s CERTIFICATES WITHOUT A READABLE DATE:\n", yellow("⚠"))
		for _, title := range r.BadDates {
			fmt.Printf("  %s\n", title)
		}
	}

	if err := r.Err(); err != nil {
		fmt.Printf("\n%s import finished with errors\n", red("✗"))
		return
	}
	fmt.Printf("\n%s import complete\n", green("✓"))
}
