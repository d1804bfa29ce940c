package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/ligun0805/token-inferno/internal/burn"
	"github.com/ligun0805/token-inferno/internal/chain"
)

func readLine(r *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	t, _ := r.ReadString('\n')
	return strings.TrimSpace(t)
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read private key: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func yes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}

func maskHex(h string) string {
	h = strings.TrimSpace(h)
	if len(h) <= 10 {
		return "***"
	}
	return h[:6] + "…" + h[len(h)-4:]
}

// promptConfirmer asks on stdin before every signature, in place of a
// wallet popup.
func promptConfirmer(in *bufio.Reader, out io.Writer, symbol string, decimals uint8) burn.Confirmer {
	return func(_ context.Context, p burn.Preview) error {
		fmt.Fprintln(out, "=== BURN ===")
		fmt.Fprintln(out, "Chain     :", p.ChainID.String())
		fmt.Fprintln(out, "From      :", p.From.Hex())
		fmt.Fprintln(out, "Token     :", p.Token.Hex())
		fmt.Fprintln(out, "To        :", p.To.Hex())
		fmt.Fprintln(out, "Amount    :", chain.FormatUnits(p.Amount, decimals), symbol)
		fmt.Fprintln(out, "Nonce     :", p.Nonce)
		fmt.Fprintln(out, "Gas limit :", p.GasLimit)
		fmt.Fprintln(out, "Tip (gwei):", formatGwei(p.TipCap))
		fmt.Fprintln(out, "Max fee   :", formatGwei(p.FeeCap), "gwei")
		fmt.Fprintln(out, "============")
		fmt.Fprint(out, "Sign and send? [y/N]: ")
		t, _ := in.ReadString('\n')
		if !yes(t) {
			return burn.ErrUserRejected
		}
		return nil
	}
}

func stdinReader() *bufio.Reader { return bufio.NewReader(os.Stdin) }
