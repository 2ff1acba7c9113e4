// Package console implements the approval gate as an interactive prompt.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"wheelStrategyBot/internal/domain"
)

// Approver implements ports.Approver over a reader/writer pair, normally
// stdin/stdout. The prompt blocks until the operator answers.
type Approver struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a console approver reading answers from in and printing the
// recommendation to out.
func New(in io.Reader, out io.Writer) *Approver {
	return &Approver{in: bufio.NewReader(in), out: out}
}

// Approve prints the recommended trade and waits for a y/n answer.
// Anything other than "y" declines.
func (a *Approver) Approve(ctx context.Context, sig *domain.TradingSignal) (bool, error) {
	fmt.Fprintf(a.out, "\n[Suggestion] Wheel Strategy Recommends:\n")
	fmt.Fprintf(a.out, "  action:  %s\n", sig.Action)
	fmt.Fprintf(a.out, "  symbol:  %s\n", sig.Symbol)
	fmt.Fprintf(a.out, "  strike:  %.2f\n", sig.Strike)
	fmt.Fprintf(a.out, "  expiry:  %s\n", sig.ExpiryString())
	fmt.Fprintf(a.out, "  premium: %.2f\n", sig.Premium)
	fmt.Fprintf(a.out, "\nApprove this trade? (y/n): ")

	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read approval answer: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}
