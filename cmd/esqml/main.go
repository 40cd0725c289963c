// Command esqml converts a legacy XML frontend theme into QML.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/waozixyz/esqml/internal/config"
	"github.com/waozixyz/esqml/internal/logger"
)

var (
	version = "0.1.0" // set at build time

	v   = config.New()
	cfg *config.Config

	errDifferences = errors.New("output differs")
)

var rootCmd = &cobra.Command{
	Use:   "esqml",
	Short: "Convert XML frontend themes to QML",
	Long: `esqml reads a theme directory (a root theme.xml and one directory per
platform) and generates the equivalent QML theme.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

var convertCmd = &cobra.Command{
	Use:   "convert INPUTDIR [OUTPUTDIR]",
	Short: "Convert a theme",
	Long:  `Convert the theme in INPUTDIR. Without OUTPUTDIR the generated file list is printed.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := ""
		if len(args) == 2 {
			out = args[1]
		}
		return runConvert(cfg, args[0], out, cmd.OutOrStdout())
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff INPUTDIR OUTPUTDIR",
	Short: "Show how a conversion would change an output directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		differs, err := runDiff(cfg, args[0], args[1], cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if differs {
			return errDifferences
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "esqml v%s\n", baseVersion(version))
	},
}

// baseVersion strips prerelease and build metadata.
func baseVersion(s string) string {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d.%d.%d", sv.Major(), sv.Minor(), sv.Patch())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDifferences) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyLogLevel, "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String(config.KeyLogFile, "", "Write logs to file instead of stderr")
	flags.String(config.KeyThemeFile, "", "Theme document name in every directory [default: theme.xml]")
	flags.Int(config.KeyMaxFormatVersion, 0, "Newest supported <formatVersion> [default: 6]")
	flags.Int(config.KeyMaxIncludeDepth, 0, "Maximum include nesting [default: 16]")
	flags.String(config.KeyResourcesDir, "", "Resource directory copied to OUTPUTDIR/__es_resources")
	flags.Int(config.KeyFontWindowHeight, 0, "Reference window height for font metrics [default: 720]")
	flags.Float64(config.KeyFontSizeMedium, 0, "Legacy medium font size for font metrics [default: 0.045]")

	if err := config.BindFlags(v, flags,
		config.KeyLogLevel,
		config.KeyLogFile,
		config.KeyThemeFile,
		config.KeyMaxFormatVersion,
		config.KeyMaxIncludeDepth,
		config.KeyResourcesDir,
		config.KeyFontWindowHeight,
		config.KeyFontSizeMedium,
	); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig resolves the configuration before any command runs. The
// config file is searched in the working directory, then the input
// directory.
func initConfig(_ *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	dirs := []string{"."}
	if len(args) > 0 {
		dirs = append(dirs, args[0])
	}
	c, err := config.Load(v, dirs...)
	if err != nil {
		return err
	}
	if err := logger.Configure(c.LogLevel, c.LogFile); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	cfg = c
	return nil
}
