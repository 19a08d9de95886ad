package email

import (
	"context"
	"fmt"

	"github.com/sitfly/seatswap/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

// Send notifies both parties of a swap event. Delivery is a stub for now.
func (s *Sender) Send(ctx context.Context, event kafka.SwapEvent) error {
	fmt.Printf("notify users %s and %s: %s\n",
		event.RequesterID, event.PartnerID, describe(event))
	return nil
}

func describe(event kafka.SwapEvent) string {
	switch event.Type {
	case "swap_created":
		return fmt.Sprintf("a seat swap was proposed on flight %s (expires %s)",
			event.FlightID, event.ExpiresAt.Format("Jan 2 15:04"))
	case "swap_accepted":
		return fmt.Sprintf("swap %s was accepted by one side, awaiting the other", event.SwapID)
	case "swap_completed":
		return fmt.Sprintf("swap %s is complete, seats have been exchanged", event.SwapID)
	case "swap_rejected":
		return fmt.Sprintf("swap %s was declined", event.SwapID)
	case "swap_expired":
		return fmt.Sprintf("swap %s expired without both confirmations", event.SwapID)
	default:
		return fmt.Sprintf("swap %s is now %s", event.SwapID, event.Status)
	}
}
