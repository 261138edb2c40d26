package main

import (
	"fmt"
	"os"

	"github.com/dyuri/sc2conv/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg *config.Config
	log *logrus.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sc2conv",
	Short: "Decode SimCity 2000 city saves and tile sets",
	Long: `sc2conv is a tool for working with SimCity 2000 save files.

It decodes .sc2 city saves, .scn scenarios and .mif tile sets (PC and Mac
variants), exports them as compressed JSON documents, renders map
overviews, validates structure and extracts saves from CD images.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "INI config file (default: ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the config file and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		c.LogLevel = logrus.DebugLevel
	}
	if cmd.Flags().Changed("log-format") {
		c.LogFormat, _ = cmd.Flags().GetString("log-format")
		if c.LogFormat != "text" && c.LogFormat != "json" {
			return fmt.Errorf("unknown log format: %s", c.LogFormat)
		}
	}

	cfg = c
	log = cfg.Logger()
	return nil
}

// addDecodeFlags registers the flags shared by every command that decodes
// a file.
func addDecodeFlags(fs *pflag.FlagSet) {
	fs.String("charset", "", "Text encoding: windows-1252, windows-1250, macintosh, iso-8859-1, utf-8 (default: by platform)")
}

// charset returns the --charset flag, falling back to the config file.
func charset(cmd *cobra.Command) string {
	if cmd.Flags().Changed("charset") {
		v, _ := cmd.Flags().GetString("charset")
		return v
	}
	return cfg.Charset
}

// version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sc2conv version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
	},
}
