package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/gungunjain36/coractl/internal/webapp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built front-end bundle locally",
	Long: `Serve the built single-page app with its route gating: onboarding
requires a connected wallet, the landing page is always reachable.

Examples:
  coractl serve
  coractl serve --dist ./dist --addr :3000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("dist", "dist", "front-end bundle directory")
	serveCmd.Flags().String("addr", "127.0.0.1:5173", "listen address")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	distDir, _ := cmd.Flags().GetString("dist")
	addr, _ := cmd.Flags().GetString("addr")

	if _, err := os.Stat(distDir); err != nil {
		return fmt.Errorf("bundle directory %s not found; build the front end first", distDir)
	}

	env, err := openEnv()
	if err != nil {
		return err
	}

	server := webapp.NewServer(distDir, env, newLogger())

	fmt.Printf("%s Serving %s on http://%s\n", colorGreen("✓"), distDir, addr)
	return http.ListenAndServe(addr, server.Handler())
}
