package workflow

import (
	"fmt"
	"math/rand/v2"
)

const (
	msgUnknownMetadata  = "This token doesn't implement standard name and symbol functions. Proceed with caution."
	msgWrongNetwork     = "This token contract exists on another network. Please switch to that network to interact with it."
	msgNotContract      = "This address is not a contract on any supported network"
	msgZeroBalance      = "You don't have any tokens to burn"
	msgLockedTitle      = "Token is Locked!"
	msgLocked           = "This token is locked and cannot be transferred. Nothing can be done."
	msgFailedTitle      = "Transaction failed! Try lowering the burn percentage."
	msgFailed           = "Some tokens require burning less than 100% due to fees or special mechanics."
	msgUnconfirmedTitle = "Burn sent, confirmation not seen yet"
)

var burnQuips = []string{
	"Straight into the inferno.",
	"Reduced to ashes.",
	"The flames are pleased.",
	"Gone, never to return.",
	"Another offering to the fire.",
}

func burnedTitle(symbol string) string { return fmt.Sprintf("%s Burned!", symbol) }

func randomQuip() string { return burnQuips[rand.IntN(len(burnQuips))] }
