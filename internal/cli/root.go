package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/tsdoc/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tsdoc",
	Short: "tsdoc - document TypeScript and JavaScript variables",
	Long: `tsdoc extracts documentation for variable declarations in TypeScript and
JavaScript modules: every name bound by var, let or const, with its declared
or locally inferred type, JSDoc and location.

Documentation can be printed for single files, indexed for a whole project,
searched, and served to coding assistants over MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .tsdoc/config.yml in the project)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initLogging routes operational log output to stderr only when verbose.
func initLogging() {
	if viper.GetBool("verbose") {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

// projectRoot returns the project root, the current working directory.
func projectRoot() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return root, nil
}

// loadConfig loads the project configuration, honouring --config.
func loadConfig(rootDir string) (*config.Config, error) {
	var loader config.Loader
	if file := viper.GetString("config"); file != "" {
		loader = config.NewFileLoader(rootDir, file)
	} else {
		loader = config.NewLoader(rootDir)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Project root: %s\n", rootDir)
	}
	return cfg, nil
}
