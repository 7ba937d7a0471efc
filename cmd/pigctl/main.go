// Command pigctl computes ignition probability assessments from the
// command line, using the same embedded reference tables as the service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pigctl",
	Short: "Forest fire ignition probability calculator",
	Long: `pigctl estimates the probability of ignition for fine dead fuels from
weather and terrain conditions, following the chained table-lookup
method used by the ignition service: base fuel moisture from air
temperature and relative humidity, a seasonal correction from exposure
and slope, and a final probability classified into risk categories.`,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
