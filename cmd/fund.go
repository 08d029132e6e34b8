package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gungunjain36/coractl/internal/envfile"
	"github.com/gungunjain36/coractl/internal/faucet"
)

var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "Fund the publisher account from the network faucet",
	Long: `Request test funds for the provisioned publisher account.

The faucet mint endpoint is tried first; if it refuses (testnet faucets
are often captcha-gated), the manual web faucet is opened in the browser
instead, pre-filled with the publisher address.

Examples:
  coractl fund
  coractl fund --amount 200000000
  coractl fund --wait`,
	RunE: runFund,
}

func init() {
	fundCmd.Flags().Uint64("amount", faucet.DefaultAmount, "amount to request, in octas")
	fundCmd.Flags().Bool("wait", false, "poll the fullnode until the balance is visible")
	fundCmd.Flags().Bool("no-browser", false, "never open a browser; print the manual faucet URL instead")

	rootCmd.AddCommand(fundCmd)
}

func runFund(cmd *cobra.Command, args []string) error {
	amount, _ := cmd.Flags().GetUint64("amount")
	wait, _ := cmd.Flags().GetBool("wait")
	noBrowser, _ := cmd.Flags().GetBool("no-browser")

	env, err := openEnv()
	if err != nil {
		return err
	}

	// Configuration errors fail before any network call.
	address, err := env.Require(envfile.KeyPublisherAddress)
	if err != nil {
		return err
	}

	prof, err := getProfile(env)
	if err != nil {
		return err
	}
	if !prof.HasFaucet() {
		return fmt.Errorf("network %q has no faucet", prof.Name)
	}

	opts := []faucet.Option{faucet.WithLogger(newLogger())}
	if prof.FaucetURL != "" {
		opts = append(opts, faucet.WithMintURL(prof.FaucetURL))
	}
	if prof.WebFaucetURL != "" {
		opts = append(opts, faucet.WithWebURL(prof.WebFaucetURL))
	}
	client := faucet.NewClient(opts...)

	ctx := context.Background()

	if err := client.Fund(ctx, address, amount); err != nil {
		fmt.Printf("%s Faucet mint failed: %v\n", colorYellow("⚠"), err)

		if noBrowser {
			fmt.Printf("\nFund the account manually:\n  %s\n", client.WebFaucetURL(address))
			return nil
		}

		u, openErr := client.OpenWebFaucet(address)
		if openErr != nil {
			// Best effort: the URL is still actionable by hand.
			fmt.Printf("\nCould not open a browser. Fund the account manually:\n  %s\n", u)
			return nil
		}
		fmt.Printf("%s Opened the web faucet in your browser:\n  %s\n", colorGreen("✓"), u)
		return nil
	}

	if jsonOut && !wait {
		return printJSON(map[string]interface{}{
			"address": address,
			"amount":  amount,
			"status":  "requested",
		})
	}

	fmt.Printf("%s Requested %d octas for %s\n", colorGreen("✓"), amount, truncate(address, 20))

	if !wait {
		return nil
	}

	nodeCli := nodeClient(prof, env)
	fmt.Printf("%s Waiting for the balance to appear on chain...\n", colorYellow("⏳"))
	for i := 0; i < 30; i++ {
		balance, err := nodeCli.AccountBalance(ctx, address)
		if err == nil && balance > 0 {
			if jsonOut {
				return printJSON(map[string]interface{}{
					"address":       address,
					"balance_octas": balance,
					"status":        "funded",
				})
			}
			fmt.Printf("%s Balance: %.4f APT\n", colorGreen("✓"), float64(balance)/1e8)
			return nil
		}
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("balance did not appear within 60s; check the faucet and try 'coractl account show'")
}
