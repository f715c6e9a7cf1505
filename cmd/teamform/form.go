package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/team-former-api-go/pkg/allocator"
	"github.com/arnavshah/team-former-api-go/pkg/config"
	"github.com/arnavshah/team-former-api-go/pkg/intake"
	"github.com/arnavshah/team-former-api-go/pkg/notify"
	"github.com/arnavshah/team-former-api-go/pkg/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type formOptions struct {
	teamSize  int
	maxRounds int
	header    bool
	csvOut    string
	notify    bool
}

func newFormCmd() *cobra.Command {
	opts := &formOptions{}

	cmd := &cobra.Command{
		Use:   "form <participants.csv>",
		Short: "Form teams from a participant CSV and print the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return runForm(cmd, args[0], opts, verbose)
		},
	}

	cmd.Flags().IntVarP(&opts.teamSize, "team-size", "s", 0, "members per team (default TEAM_SIZE or 5)")
	cmd.Flags().IntVar(&opts.maxRounds, "max-rounds", 0, "abort after this many rounds (default MAX_ROUNDS or 500)")
	cmd.Flags().BoolVar(&opts.header, "header", false, "first row is a header; map columns by name")
	cmd.Flags().StringVar(&opts.csvOut, "csv", "", "also write the assignments as CSV to this path")
	cmd.Flags().BoolVar(&opts.notify, "notify", false, "email every team its roster using the SMTP_* settings")
	return cmd
}

func runForm(cmd *cobra.Command, path string, opts *formOptions, verbose bool) error {
	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	teamSize := cfg.TeamSize
	if cmd.Flags().Changed("team-size") {
		teamSize = opts.teamSize
	}
	maxRounds := cfg.MaxRounds
	if opts.maxRounds > 0 {
		maxRounds = opts.maxRounds
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open participants: %w", err)
	}
	defer f.Close()

	rows, err := intake.ReadCSV(f)
	if err != nil {
		return err
	}

	layout := intake.DefaultLayout
	if opts.header && len(rows) > 0 {
		if layout, err = intake.LayoutFromHeader(rows[0]); err != nil {
			return err
		}
		rows = rows[1:]
	}

	participants := intake.Participants(rows, layout)
	log.Debug("participants loaded",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.Int("participants", len(participants)))

	a, err := allocator.New(participants, teamSize,
		allocator.WithLogger(log),
		allocator.WithMaxRounds(maxRounds))
	if err != nil {
		return err
	}
	res, err := a.Run()
	if err != nil {
		return err
	}

	if err := report.Render(cmd.OutOrStdout(), res.Teams); err != nil {
		return err
	}

	if opts.csvOut != "" {
		out, err := os.Create(opts.csvOut)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer out.Close()
		if err := report.WriteCSV(out, res.Teams); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	if opts.notify {
		if !cfg.MailEnabled() {
			return fmt.Errorf("--notify requires SMTP_HOST and SMTP_FROM")
		}
		sent, err := notify.NotifyTeams(cmd.Context(), notify.NewSMTPNotifier(cfg), report.Roster(res.Teams), log)
		if err != nil {
			return err
		}
		log.Info("notifications sent", zap.Int("teams", sent))
	}
	return nil
}
