package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")

	var chainID uint64

	rootCmd := &cobra.Command{
		Use:           "burncli",
		Short:         "Burn ERC-20 tokens to the dead address",
		Long:          "burncli looks up an ERC-20 token, flags fee-on-transfer or special tokens and sends a share of your balance to the burn address, keeping a local burn history.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	rootCmd.PersistentFlags().Uint64Var(&chainID, "chain", 0, "chain id to use (defaults to CHAIN_ID)")

	rootCmd.AddCommand(
		networksCmd(),
		lookupCmd(&chainID),
		burnCmd(&chainID),
		historyCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
