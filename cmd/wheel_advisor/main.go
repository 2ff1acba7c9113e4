// Command wheel_advisor runs one turn of the wheel recommendation loop:
// it proposes the next trade for the current wheel state, asks the
// operator for approval, and on approval submits the signal to the bot's
// webhook and advances the persisted state.
//
// The assignment of a sold put cannot be observed by the bot; report it
// with -assigned when it happens:
//
//	wheel_advisor -assigned 100
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"wheelStrategyBot/config"
	"wheelStrategyBot/internal/adapters/console"
	"wheelStrategyBot/internal/adapters/logger"
	"wheelStrategyBot/internal/adapters/statefile"
	"wheelStrategyBot/internal/adapters/webhookclient"
	"wheelStrategyBot/internal/app"
	"wheelStrategyBot/internal/strategy"
)

func main() {
	assignedShares := flag.Int("assigned", 0, "record that the sold put was assigned for N shares, then exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	store, err := statefile.NewStore(statefile.Config{
		Path:   cfg.StatePath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize wheel state store: %v", err)
	}

	machine, err := strategy.New(strategy.Config{
		Symbol:      cfg.WheelSymbol,
		PutStrike:   cfg.WheelPutStrike,
		PutPremium:  cfg.WheelPutPremium,
		CallStrike:  cfg.WheelCallStrike,
		CallPremium: cfg.WheelCallPremium,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize wheel strategy: %v", err)
	}

	submitter, err := webhookclient.New(webhookclient.Config{
		URL:    cfg.WebhookURL,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize webhook client: %v", err)
	}

	advisor, err := app.NewAdvisor(app.AdvisorConfig{
		Logger:    appLogger,
		Machine:   machine,
		Store:     store,
		Approver:  console.New(os.Stdin, os.Stdout),
		Submitter: submitter,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize advisor: %v", err)
	}

	if *assignedShares > 0 {
		state, err := advisor.RecordAssignment(ctx, *assignedShares)
		if err != nil {
			log.Fatalf("FATAL: Failed to record assignment: %v", err)
		}
		fmt.Printf("Assignment recorded: %d shares held, phase %s\n", state.SharesHeld, state.Phase)
		return
	}

	result, err := advisor.Run(ctx)
	if err != nil {
		log.Fatalf("FATAL: Advisor run failed: %v", err)
	}

	switch {
	case result.Recommended == nil:
		fmt.Printf("No recommendation: wheel is in phase %s\n", result.State.Phase)
	case !result.Approved:
		fmt.Println("Trade not approved. Wheel state unchanged.")
	case result.Submission != nil:
		fmt.Printf("Signal submitted: record %d, status %s\n", result.Submission.RecordID, result.Submission.Status)
	default:
		fmt.Println("Submission failed; wheel state advanced anyway. Check the signal audit trail.")
	}
}
