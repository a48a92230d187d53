package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stepherg/rigtune"
)

func newScoreCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Print the optimization score and counters of the seed catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, store, err := ro.load()
			if err != nil {
				return err
			}
			sum := store.Summary()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "score:               %d\n", sum.Score)
			fmt.Fprintf(out, "bloatware enabled:   %d\n", sum.EnabledBloatware)
			fmt.Fprintf(out, "high impact enabled: %d\n", sum.EnabledHighImpact)
			fmt.Fprintf(out, "recommended pending: %d\n", sum.PendingRecommended)
			return nil
		},
	}
}

func newCatalogCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the seed catalog as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, store, err := ro.load()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				System   rigtune.SystemInfo            `json:"system"`
				Programs []rigtune.StartupProgram      `json:"programs"`
				Settings []rigtune.OptimizationSetting `json:"settings"`
			}{store.SystemInfo(), store.StartupPrograms(), store.OptimizationSettings()})
		},
	}
}
