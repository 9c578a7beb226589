package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/itsmostafa/gostep/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gostep",
	Short: "Step through move and turn programs on a grid",
	Long: `gostep runs programs made of named commands (forward, left, right and any
commands defined by scripts in the program file) one step at a time or as a
whole run, drawing the character's grid as it goes.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("gostep %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
