package cmd

import (
	"log"

	"github.com/project-tktt/empleos-bot/internal/module/report"
	"github.com/spf13/cobra"
)

var shapesPath string

func init() {
	rootCmd.AddCommand(
		chartCmd("activity", "Plots the daily listing count.", (*report.Report).Activity, report.ActivityFile),
		chartCmd("salary-hist", "Plots the salary distribution up to 20000 MXN.", (*report.Report).SalaryHist, report.SalaryHistFile),
		chartCmd("hours-hist", "Plots the hours worked distribution.", (*report.Report).HoursHist, report.HoursHistFile),
		chartCmd("days-hist", "Plots the days worked distribution.", (*report.Report).DaysHist, report.DaysHistFile),
		chartCmd("scatter", "Plots hours worked against salary.", (*report.Report).Scatter, report.ScatterFile),
		chartCmd("states", "Plots the offers per state.", (*report.Report).States, report.StatesFile),
		chartCmd("professions", "Writes the median salary per offer.", (*report.Report).WriteProfessions, report.ProfessionsFile),
		mapsCmd,
		allCmd,
	)

	mapsCmd.Flags().StringVar(&shapesPath, "shapes", "./mexicostates", "shapefile, or directory holding one")
	allCmd.Flags().StringVar(&shapesPath, "shapes", "./mexicostates", "shapefile, or directory holding one")
}

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "Draws median salary and offer count maps per state.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := load()
		if err != nil {
			return err
		}
		if err := r.Maps(shapesPath); err != nil {
			return err
		}
		log.Printf("[Report] Wrote %s and %s", report.MedianMapFile, report.CountMapFile)
		return nil
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Prints every table and writes every chart.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		r.Stats(out)
		report.PrintShares(out, "Hours worked", "Hours", r.HoursShare())
		report.PrintShares(out, "Salary brackets", "Bracket", r.SalaryBrackets())

		steps := []struct {
			name string
			run  func() error
		}{
			{report.ActivityFile, r.Activity},
			{report.SalaryHistFile, r.SalaryHist},
			{report.HoursHistFile, r.HoursHist},
			{report.DaysHistFile, r.DaysHist},
			{report.ScatterFile, r.Scatter},
			{report.StatesFile, r.States},
			{report.ProfessionsFile, r.WriteProfessions},
			{"maps", func() error { return r.Maps(shapesPath) }},
		}
		for _, s := range steps {
			if err := s.run(); err != nil {
				log.Printf("[Report] Skipping %s: %v", s.name, err)
				continue
			}
			log.Printf("[Report] Wrote %s", s.name)
		}
		return nil
	},
}
