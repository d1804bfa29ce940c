package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func networksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List supported networks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			for _, n := range a.networks {
				mark := " "
				if n.ID == a.cfg.ChainID {
					mark = "*"
				}
				fmt.Printf("%s %-10d %-18s %s\n", mark, n.ID, n.Name, n.RPCURL)
			}
			return nil
		},
	}
}
