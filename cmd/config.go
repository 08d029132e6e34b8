package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gungunjain36/coractl/internal/profile"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `Commands for managing the coractl configuration file.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file at ~/.coractl.yaml with interactive prompts.`,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configNetworksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the built-in network profiles",
	RunE:  runConfigNetworks,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configNetworksCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFilePath()

	// Check if file exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("%s Config file already exists at %s\n", colorYellow("⚠"), configPath)
		fmt.Print("Overwrite? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	// Prompt for values
	fmt.Printf("Network [%s]: ", "testnet")
	var networkInput string
	fmt.Scanln(&networkInput)
	if networkInput == "" {
		networkInput = "testnet"
	}
	if _, err := profile.Builtin(networkInput); err != nil {
		return err
	}

	fmt.Print("Env file path [.env]: ")
	var envInput string
	fmt.Scanln(&envInput)
	if envInput == "" {
		envInput = ".env"
	}

	configContent := fmt.Sprintf(`# coractl configuration
network: %s
env_file: %s
`, networkInput, envInput)

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("%s Config written to %s\n", colorGreen("✓"), configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if jsonOut {
		return printJSON(map[string]string{
			"config_file": viper.ConfigFileUsed(),
			"network":     viper.GetString("network"),
			"env_file":    getEnvFilePath(),
		})
	}

	fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	fmt.Printf("Network:     %s\n", viper.GetString("network"))
	fmt.Printf("Env file:    %s\n", getEnvFilePath())
	return nil
}

func runConfigNetworks(cmd *cobra.Command, args []string) error {
	if jsonOut {
		profiles := make([]profile.Profile, 0, len(profile.Names()))
		for _, name := range profile.Names() {
			p, err := profile.Builtin(name)
			if err != nil {
				return err
			}
			profiles = append(profiles, p)
		}
		return printJSON(profiles)
	}

	w := newTable()
	printTableHeader(w, "NETWORK", "NODE URL", "FAUCET")
	for _, name := range profile.Names() {
		p, err := profile.Builtin(name)
		if err != nil {
			return err
		}
		faucetCol := "-"
		if p.HasFaucet() {
			faucetCol = colorGreen("yes")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.NodeURL, faucetCol)
	}
	return w.Flush()
}
