package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gungunjain36/coractl/internal/account"
	"github.com/gungunjain36/coractl/internal/envfile"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the publisher account",
	Long: `Commands for the account that signs and publishes the contract module.

Examples:
  coractl account create
  coractl account create --force
  coractl account show`,
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a publisher account and write it to the env file",
	Long: `Generate a fresh ed25519 key pair, derive the account address, and
write the module address, publisher address, and publisher private key
into the project environment file. All other keys in the file are left
untouched.

Regenerating overwrites the previous publisher account; pass --force to
skip the confirmation when one already exists.`,
	RunE: runAccountCreate,
}

var accountShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the provisioned publisher account and its on-chain state",
	RunE:  runAccountShow,
}

func init() {
	accountCreateCmd.Flags().BoolP("force", "f", false, "overwrite an existing publisher account without asking")

	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountShowCmd)
	rootCmd.AddCommand(accountCmd)
}

func runAccountCreate(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	env, err := openEnv()
	if err != nil {
		return err
	}

	if existing, ok := env.Get(envfile.KeyPublisherAddress); ok && !force {
		fmt.Printf("%s A publisher account already exists: %s\n", colorYellow("⚠"), truncate(existing, 20))
		fmt.Print("Overwrite it? The old key becomes unrecoverable. [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	acct, err := account.Generate()
	if err != nil {
		return err
	}

	env.Set(envfile.KeyAppNetwork, getNetwork(env))
	env.Set(envfile.KeyModuleAddress, acct.Address())
	env.Set(envfile.KeyPublisherAddress, acct.Address())
	env.Set(envfile.KeyPublisherPrivateKey, acct.PrivateKeyHex())

	if err := env.Save(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]string{
			"address":  acct.Address(),
			"env_file": env.Path(),
		})
	}

	fmt.Printf("%s Publisher account created\n", colorGreen("✓"))
	fmt.Printf("  Address:  %s\n", acct.Address())
	fmt.Printf("  Env file: %s\n", env.Path())
	fmt.Printf("\n💡 Fund the account before publishing:\n")
	fmt.Printf("   coractl fund\n")
	return nil
}

func runAccountShow(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}

	address, err := env.Require(envfile.KeyPublisherAddress)
	if err != nil {
		return err
	}

	prof, err := getProfile(env)
	if err != nil {
		return err
	}
	client := nodeClient(prof, env)

	ctx := context.Background()
	onChain, err := client.Account(ctx, address)
	if err != nil {
		printError(err)
		return err
	}

	var balance uint64
	if onChain != nil {
		balance, err = client.AccountBalance(ctx, address)
		if err != nil {
			printError(err)
			return err
		}
	}

	if jsonOut {
		out := map[string]interface{}{
			"address":       address,
			"network":       prof.Name,
			"exists":        onChain != nil,
			"balance_octas": balance,
		}
		if onChain != nil {
			out["sequence_number"] = onChain.SequenceNumber
		}
		return printJSON(out)
	}

	fmt.Printf("Address:  %s\n", address)
	fmt.Printf("Network:  %s\n", prof.Name)
	if onChain == nil {
		fmt.Printf("On-chain: %s\n", colorYellow("not found (fund the account to create it)"))
		return nil
	}
	fmt.Printf("On-chain: %s\n", colorGreen("exists"))
	fmt.Printf("Sequence: %s\n", onChain.SequenceNumber)
	fmt.Printf("Balance:  %.4f APT\n", float64(balance)/1e8)
	return nil
}
