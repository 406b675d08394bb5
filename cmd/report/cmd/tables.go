package cmd

import (
	"github.com/project-tktt/empleos-bot/internal/module/report"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd, hoursShareCmd, bracketsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints the salary summary.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := load()
		if err != nil {
			return err
		}
		r.Stats(cmd.OutOrStdout())
		return nil
	},
}

var hoursShareCmd = &cobra.Command{
	Use:   "hours-share",
	Short: "Prints the share of listings per hours worked.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := load()
		if err != nil {
			return err
		}
		report.PrintShares(cmd.OutOrStdout(), "Hours worked", "Hours", r.HoursShare())
		return nil
	},
}

var bracketsCmd = &cobra.Command{
	Use:   "salary-brackets",
	Short: "Prints the share of listings per salary bracket.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := load()
		if err != nil {
			return err
		}
		report.PrintShares(cmd.OutOrStdout(), "Salary brackets", "Bracket", r.SalaryBrackets())
		return nil
	},
}
