package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ligun0805/token-inferno/internal/chain"
	"github.com/ligun0805/token-inferno/internal/workflow"
)

func lookupCmd(chainID *uint64) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <token-address>",
		Short: "Read and classify a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			owner, err := a.owner()
			if err != nil {
				return err
			}
			c := a.controller(a.chainID(*chainID), owner, nil, nil)
			info, err := c.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printToken(info, owner.Hex(), c.View())
			return nil
		},
	}
}

func printToken(info workflow.TokenInfo, owner string, v workflow.View) {
	fmt.Println("=== TOKEN ===")
	fmt.Println("Chain        :", v.ChainID)
	fmt.Println("Address      :", info.Address.Hex())
	fmt.Println("Name         :", info.Name)
	fmt.Println("Symbol       :", info.Symbol)
	fmt.Println("Decimals     :", info.Decimals)
	fmt.Println("Owner        :", owner)
	fmt.Println("Balance      :", chain.FormatUnits(info.Balance, info.Decimals), info.Symbol)
	fmt.Println("Special      :", info.IsSpecialToken)
	if info.TokenWarning != "" {
		fmt.Println("Warning      :", info.TokenWarning)
	}
	fmt.Println("Restrictions :", info.Restrictions.Summary())
	fmt.Printf("Burn percent : %s%%\n", v.Percent)
	fmt.Println("=============")
}
