package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gungunjain36/coractl/internal/envfile"
	"github.com/gungunjain36/coractl/internal/node"
	"github.com/gungunjain36/coractl/internal/profile"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Global flags
	cfgFile     string
	envFilePath string
	network     string
	profilePath string
	jsonOut     bool
	verbose     bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "coractl",
	Short: "Cora dApp toolkit - provision, fund, compile, publish",
	Long: `coractl bootstraps the Cora insurance dApp environment.

It provisions the publisher account, persists it to the project's .env
file, funds it from the network faucet, and compiles and publishes the
Move contract package with the derived named address.

Configuration (in order of priority):
  1. Command-line flags (--env-file, --network, --profile)
  2. Environment variables (CORA_NETWORK, CORA_ENV_FILE)
  3. Config file (~/.coractl.yaml)

Get started:
  $ coractl account create     # Generate the publisher account
  $ coractl fund               # Fund it from the testnet faucet
  $ coractl move publish       # Compile and publish the contract
  $ coractl doctor             # Verify the environment end to end`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coractl version %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.coractl.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFilePath, "env-file", "", "project environment file (default .env, or CORA_ENV_FILE)")
	rootCmd.PersistentFlags().StringVar(&network, "network", "", "target network: devnet, testnet, mainnet (or CORA_NETWORK)")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "custom network profile YAML (overrides --network)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(versionCmd)
}

// initConfig initializes viper configuration.
func initConfig() {
	// Set defaults
	viper.SetDefault("env_file", ".env")
	viper.SetDefault("network", "testnet")

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".coractl")
		}
	}

	// Environment variables
	viper.SetEnvPrefix("CORA")
	viper.AutomaticEnv()
	_ = viper.BindEnv("network", "CORA_NETWORK")
	_ = viper.BindEnv("env_file", "CORA_ENV_FILE")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// getEnvFilePath returns the env file path from flags, env, or config.
func getEnvFilePath() string {
	if envFilePath != "" {
		return envFilePath
	}
	return viper.GetString("env_file")
}

// openEnv loads the project environment store.
func openEnv() (*envfile.Env, error) {
	env, err := envfile.Load(getEnvFilePath())
	if err != nil {
		return nil, err
	}
	return env, nil
}

// getNetwork returns the network name from flags, env file, env, or config.
func getNetwork(env *envfile.Env) string {
	if network != "" {
		return network
	}
	if env != nil {
		if n, ok := env.Get(envfile.KeyAppNetwork); ok {
			return n
		}
	}
	return viper.GetString("network")
}

// getProfile resolves the network profile for this run.
func getProfile(env *envfile.Env) (profile.Profile, error) {
	return profile.Resolve(getNetwork(env), profilePath)
}

// nodeClient builds a fullnode client for the profile, honoring the env
// file overrides for node URL and API key.
func nodeClient(prof profile.Profile, env *envfile.Env) *node.Client {
	opts := []node.Option{node.WithBaseURL(prof.NodeURL)}
	if env != nil {
		if u, ok := env.Get(envfile.KeyNodeURL); ok {
			opts = []node.Option{node.WithBaseURL(u)}
		}
		if key, ok := env.Get(envfile.KeyAPIKey); ok {
			opts = append(opts, node.WithAPIKey(key))
		}
	}
	return node.NewClient(opts...)
}

// newLogger builds the slog logger for internal packages.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// configFilePath returns the default config file path.
func configFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coractl.yaml"
	}
	return filepath.Join(home, ".coractl.yaml")
}

// Output helpers

// printJSON outputs data as formatted JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError prints an error message.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", colorRed("Error:"), err.Error())
}

// newTable creates a new tabwriter for formatted output.
func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

// printTableHeader prints a bold header row.
func printTableHeader(w *tabwriter.Writer, columns ...string) {
	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, colorBold(col))
	}
	fmt.Fprintln(w)
}

// Terminal colors

func colorRed(s string) string {
	if !isTTY() {
		return s
	}
	return "\033[31m" + s + "\033[0m"
}

func colorGreen(s string) string {
	if !isTTY() {
		return s
	}
	return "\033[32m" + s + "\033[0m"
}

func colorYellow(s string) string {
	if !isTTY() {
		return s
	}
	return "\033[33m" + s + "\033[0m"
}

func colorBold(s string) string {
	if !isTTY() {
		return s
	}
	return "\033[1m" + s + "\033[0m"
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
