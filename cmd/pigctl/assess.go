package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emberwatch/ignition-service/internal/ignition"
	"github.com/emberwatch/ignition-service/internal/tables"
)

var assessFlags struct {
	temperature float64
	humidity    float64
	hour        string
	month       int
	shade       float64
	slope       float64
	aspect      string
	jsonOutput  bool
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Compute an ignition probability assessment",
	Example: `  pigctl assess --temp 25 --rh 30 --hour 14:00 --month 1 --shade 0 --slope 10 --aspect north
  pigctl assess --temp 18 --rh 55 --hour 3.5 --month 6 --shade 80 --slope 45 --aspect south --json`,
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().Float64Var(&assessFlags.temperature, "temp", 0, "air temperature in °C (required)")
	assessCmd.Flags().Float64Var(&assessFlags.humidity, "rh", 0, "relative humidity in percent (required)")
	assessCmd.Flags().StringVar(&assessFlags.hour, "hour", "", `hour of day, "HH:MM" or decimal (required)`)
	assessCmd.Flags().IntVar(&assessFlags.month, "month", 0, "calendar month, 1-12 (required)")
	assessCmd.Flags().Float64Var(&assessFlags.shade, "shade", 0, "canopy shade in percent")
	assessCmd.Flags().Float64Var(&assessFlags.slope, "slope", 0, "terrain slope in percent")
	assessCmd.Flags().StringVar(&assessFlags.aspect, "aspect", "", "slope aspect: north, south, east, west (required)")
	assessCmd.Flags().BoolVar(&assessFlags.jsonOutput, "json", false, "print the assessment as JSON")

	for _, name := range []string{"temp", "rh", "hour", "month", "aspect"} {
		_ = assessCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	hour, err := parseHour(assessFlags.hour)
	if err != nil {
		return err
	}

	aspect, err := ignition.ParseAspect(assessFlags.aspect)
	if err != nil {
		return err
	}

	store, err := tables.NewStore()
	if err != nil {
		return fmt.Errorf("loading reference tables: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	calc := ignition.NewCalculator(store, logger, nil) // one-shot run, no metrics endpoint

	result, err := calc.Assess(ignition.Inputs{
		Temperature:      assessFlags.temperature,
		RelativeHumidity: assessFlags.humidity,
		Hour:             hour,
		Month:            assessFlags.month,
		ShadePercent:     assessFlags.shade,
		SlopePercent:     assessFlags.slope,
		Aspect:           aspect,
	})
	if err != nil {
		return err
	}

	if assessFlags.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printAssessment(cmd.OutOrStdout(), result)
	return nil
}

func printAssessment(w io.Writer, result ignition.Assessment) {
	fmt.Fprintf(w, "Base fuel moisture:  %.0f%%\n", result.BaseMoisture)
	fmt.Fprintf(w, "Correction:          %+.0f%%\n", result.Correction)
	fmt.Fprintf(w, "Final fuel moisture: %.0f%%\n", result.FinalMoisture)
	fmt.Fprintf(w, "Ignition probability: %.0f%% (%s)\n", result.Probability, result.Category.Name)
	fmt.Fprintf(w, "\n%s\n", result.Category.Interpretation)
	for _, note := range result.Notes {
		fmt.Fprintf(w, "  note: %s\n", note)
	}
}

// parseHour accepts "HH:MM" or a decimal hour like "14.5".
func parseHour(s string) (float64, error) {
	if h, m, ok := strings.Cut(s, ":"); ok {
		hour, err := strconv.Atoi(h)
		if err != nil {
			return 0, fmt.Errorf("invalid hour %q", s)
		}
		minute, err := strconv.Atoi(m)
		if err != nil || minute < 0 || minute > 59 {
			return 0, fmt.Errorf("invalid hour %q", s)
		}
		return float64(hour) + float64(minute)/60, nil
	}

	hour, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hour %q", s)
	}
	return hour, nil
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the risk category legend",
	Run: func(cmd *cobra.Command, _ []string) {
		w := cmd.OutOrStdout()
		for _, c := range ignition.Categories() {
			fmt.Fprintf(w, "%-10s %3.0f-%3.0f%%  %s\n", c.Name, c.Low, c.High, c.Usage)
		}
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
