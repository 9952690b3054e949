package cmd

import (
	"errors"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag  string
	verboseFlag int // 0=warnings, 1=-v info, 2=-vv debug
	noColorFlag bool
)

// errReported marks failures whose details were already written by a formatter.
var errReported = errors.New("submission failed")

var rootCmd = &cobra.Command{
	Use:   "formpost",
	Short: "Build and submit HTML forms from the command line.",
	Long: `formpost encodes form fields and file attachments the way a browser
does, as application/x-www-form-urlencoded or multipart/form-data, and
POSTs them to a URL.`,
	SilenceUsage: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			rootCmd.PrintErrln("Error:", err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("FORMPOST_CONFIG", ""), "Path to config file (env: FORMPOST_CONFIG)")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v, -vv for more detail)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("FORMPOST_NO_COLOR", false), "Disable colored output (env: FORMPOST_NO_COLOR)")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(mimeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
