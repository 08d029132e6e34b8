package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gungunjain36/coractl/internal/movecli"
	"github.com/gungunjain36/coractl/internal/preflight"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight checks against the environment",
	Long: `Verify the local environment end to end: managed env keys, fullnode
reachability, publisher funding, and module publication.

Exits non-zero if any check fails.

Examples:
  coractl doctor
  coractl doctor --min-balance 100000000`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().String("module-name", movecli.DefaultModuleName, "module to check for")
	doctorCmd.Flags().Uint64("min-balance", preflight.DefaultMinBalance, "required publisher balance, in octas")

	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	moduleName, _ := cmd.Flags().GetString("module-name")
	minBalance, _ := cmd.Flags().GetUint64("min-balance")

	env, err := openEnv()
	if err != nil {
		return err
	}

	prof, err := getProfile(env)
	if err != nil {
		return err
	}

	checker := preflight.NewChecker(nodeClient(prof, env))
	resp, err := checker.RunChecks(context.Background(), &preflight.Request{
		Env:        env,
		ModuleName: moduleName,
		MinBalance: minBalance,
	})
	if err != nil {
		printError(err)
		return err
	}

	if jsonOut {
		if err := printJSON(resp); err != nil {
			return err
		}
	} else {
		w := newTable()
		printTableHeader(w, "CHECK", "STATUS", "DETAIL")
		for _, check := range resp.Checks {
			status := colorGreen("pass")
			if !check.Passed {
				status = colorRed("FAIL")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", check.Name, status, check.Message)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if !resp.OK {
		return fmt.Errorf("pre-flight checks failed")
	}

	if !jsonOut {
		fmt.Printf("\n%s Environment is ready\n", colorGreen("✓"))
	}
	return nil
}
