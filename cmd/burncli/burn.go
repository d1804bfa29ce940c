package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ligun0805/token-inferno/internal/burn"
	"github.com/ligun0805/token-inferno/internal/chain"
)

func burnCmd(chainID *uint64) *cobra.Command {
	var (
		percent string
		assume  bool
	)

	cmd := &cobra.Command{
		Use:   "burn <token-address>",
		Short: "Send a share of your token balance to the burn address",
		Long:  "Loads the token, applies the burn percentage (80% by default for fee-on-transfer or special tokens, 100% otherwise), asks for confirmation and records the confirmed burn in the history.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			in := stdinReader()
			pk := a.cfg.PrivateKeyHex
			if strings.TrimSpace(pk) == "" {
				if pk, err = readPassword("Private key of the burning wallet: "); err != nil {
					return err
				}
				a.cfg.PrivateKeyHex = pk
			}
			fmt.Println("BURN_PRIVATE_KEY :", maskHex(pk))
			owner, err := a.owner()
			if err != nil {
				return err
			}

			l, err := a.openLedger(ctx)
			if err != nil {
				return err
			}

			var (
				symbol   string
				decimals uint8
				confirm  burn.Confirmer = burn.AutoConfirm
			)
			if !assume {
				// symbol and decimals are known once the token is loaded.
				confirm = func(ctx context.Context, p burn.Preview) error {
					return promptConfirmer(in, os.Stdout, symbol, decimals)(ctx, p)
				}
			}
			c := a.controller(a.chainID(*chainID), owner, l, a.submitters(pk, confirm))

			info, err := c.Load(ctx, args[0])
			if err != nil {
				return err
			}
			symbol, decimals = info.Symbol, info.Decimals
			if percent != "" {
				if _, err := c.SetPercentText(percent); err != nil {
					return err
				}
			}
			printToken(info, owner.Hex(), c.View())

			out, err := c.Burn(ctx)
			if errors.Is(err, burn.ErrUserRejected) {
				fmt.Println("Burn cancelled.")
				return nil
			}
			if err != nil {
				if out != nil {
					fmt.Println("Tx       :", out.TxHash.Hex(), "(sent, not confirmed)")
				}
				return err
			}
			fmt.Println("Tx       :", out.TxHash.Hex())
			fmt.Println("Burned   :", chain.FormatUnits(out.Amount, decimals), symbol)
			fmt.Println("Block    :", out.Receipt.BlockNumber)
			fmt.Println("Gas used :", out.Receipt.GasUsed)
			if !out.Recorded {
				fmt.Println("History  : already recorded")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&percent, "percent", "p", "", "percentage of the balance to burn, 0.01 to 100")
	cmd.Flags().BoolVarP(&assume, "yes", "y", false, "sign without asking")
	return cmd
}
