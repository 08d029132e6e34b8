package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gungunjain36/coractl/internal/envfile"
	"github.com/gungunjain36/coractl/internal/movecli"
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Compile and publish the contract package",
	Long: `Drive the external Move CLI against the Cora contract package.

The publisher address from the env file is bound to the package's named
address at every invocation.

Examples:
  coractl move compile
  coractl move publish
  coractl move compile --package-dir ./contract --module-name cora_insurance`,
}

var moveCompileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the contract package",
	RunE:  runMoveCompile,
}

var movePublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Compile and publish the contract package on chain",
	Long: `Compile and publish the package with the publisher's key. On success
the module address is recorded in the env file.`,
	RunE: runMovePublish,
}

func init() {
	for _, c := range []*cobra.Command{moveCompileCmd, movePublishCmd} {
		c.Flags().String("package-dir", "contract", "Move package directory")
		c.Flags().String("module-name", movecli.DefaultModuleName, "named address to bind")
		c.Flags().String("bin", movecli.DefaultBinary, "Move CLI binary")
	}

	moveCmd.AddCommand(moveCompileCmd)
	moveCmd.AddCommand(movePublishCmd)
	rootCmd.AddCommand(moveCmd)
}

func newCompilerFromFlags(cmd *cobra.Command) *movecli.Compiler {
	packageDir, _ := cmd.Flags().GetString("package-dir")
	moduleName, _ := cmd.Flags().GetString("module-name")
	bin, _ := cmd.Flags().GetString("bin")

	return movecli.NewCompiler(packageDir,
		movecli.WithModuleName(moduleName),
		movecli.WithBinary(bin),
		movecli.WithLogger(newLogger()),
	)
}

func runMoveCompile(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}

	// Configuration errors fail before the external tool is touched.
	address, err := env.Require(envfile.KeyPublisherAddress)
	if err != nil {
		return err
	}

	compiler := newCompilerFromFlags(cmd)
	result, err := compiler.Compile(context.Background(), address)
	printToolOutput(result)
	if err != nil {
		return err
	}

	fmt.Printf("%s Package compiled\n", colorGreen("✓"))
	return nil
}

func runMovePublish(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}

	address, err := env.Require(envfile.KeyPublisherAddress)
	if err != nil {
		return err
	}
	privateKey, err := env.Require(envfile.KeyPublisherPrivateKey)
	if err != nil {
		return err
	}

	prof, err := getProfile(env)
	if err != nil {
		return err
	}

	compiler := newCompilerFromFlags(cmd)
	result, err := compiler.Publish(context.Background(), address, privateKey, prof.NodeURL)
	printToolOutput(result)
	if err != nil {
		return err
	}

	// The module lives at the publisher's address.
	env.Set(envfile.KeyModuleAddress, address)
	if err := env.Save(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]string{
			"module_address": address,
			"network":        prof.Name,
			"status":         "published",
		})
	}

	fmt.Printf("%s Module published at %s\n", colorGreen("✓"), address)
	fmt.Printf("\n💡 Verify the deployment: coractl doctor\n")
	return nil
}

// printToolOutput passes the child's output through verbatim.
func printToolOutput(result movecli.Result) {
	if result.Stdout != "" {
		fmt.Fprint(os.Stdout, result.Stdout)
	}
	if result.Stderr != "" {
		fmt.Fprint(os.Stderr, result.Stderr)
	}
}
