// Copyright 2025 Roni Ahmadi

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     https://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// pinet is a command line tool for driving app-to-user Pi payments: create a
// payment on the platform API, approve it, submit it on the ledger and mark
// it complete.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	slogenv "github.com/cbrewster/slog-env"
	"github.com/cenkalti/backoff/v4"
	"github.com/fatih/color"
	"github.com/google/uuid"

	pinet "github.com/roniahmadi/pi-network-helper"
	"github.com/roniahmadi/pi-network-helper/config"
	"github.com/roniahmadi/pi-network-helper/funds"
	"github.com/roniahmadi/pi-network-helper/ledger"
	"github.com/roniahmadi/pi-network-helper/payment"
)

const usage = `usage: pinet [-config file.yaml] <command> [args]

commands:
  balance                      print the wallet's native balance
  get <id>                     print the platform record of a payment
  create -amount A -uid U -recipient G... [-memo M]
                               create a payment on the platform
  approve <id>                 approve a payment
  submit <id>                  submit an open payment on the ledger
  complete <id> [txid]         mark a payment complete
  cancel <id>                  cancel a payment
  incomplete                   list incomplete server payments
  pay -amount A -uid U -recipient G... [-memo M]
                               run the full create/approve/submit/complete flow

configuration is read from the YAML file given with -config, then from the
environment: PI_API_KEY, PI_WALLET_SEED, PI_NETWORK (main|test).
`

func main() {
	slog.SetDefault(slog.New(slogenv.NewHandler(slog.NewTextHandler(os.Stderr, nil))))

	if err := run(os.Args[1:]); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func envMappings() map[string]config.EnvMapping[pinet.Config] {
	return map[string]config.EnvMapping[pinet.Config]{
		"PI_API_KEY": {Func: func(cfg *pinet.Config, val string) error {
			return config.MapEnvString(&cfg.APIKey, val)
		}},
		"PI_WALLET_SEED": {Func: func(cfg *pinet.Config, val string) error {
			return config.MapEnvString(&cfg.WalletSeed, val)
		}},
		"PI_NETWORK": {Func: func(cfg *pinet.Config, val string) error {
			cfg.Network = ledger.Network(val)
			return cfg.Network.IsValid()
		}},
		"PI_API_URL": {Func: func(cfg *pinet.Config, val string) error {
			return config.MapEnvString(&cfg.APIURL, val)
		}},
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("pinet", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no command given")
	}

	cfg := pinet.DefaultConfig()
	if err := config.Load(&cfg, *configPath, envMappings()); err != nil {
		return err
	}

	client, err := pinet.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "balance":
		return runBalance(client)
	case "get":
		return runGet(ctx, client, cmdArgs)
	case "create":
		return runCreate(ctx, client, cmdArgs)
	case "approve":
		return runRecordOp(ctx, client.ApprovePayment, cmdArgs)
	case "submit":
		return runSubmit(ctx, client, cmdArgs)
	case "complete":
		return runComplete(ctx, client, cmdArgs)
	case "cancel":
		return runRecordOp(ctx, client.CancelPayment, cmdArgs)
	case "incomplete":
		return runIncomplete(ctx, client)
	case "pay":
		return runPay(ctx, client, cmdArgs)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parsePaymentFlags(name string, args []string) (payment.Request, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	amount := fs.String("amount", "", "payment amount, decimal string")
	uid := fs.String("uid", "", "external user id (generated when empty)")
	recipient := fs.String("recipient", "", "destination ledger account")
	memo := fs.String("memo", "", "payment memo (defaults to the uid)")
	if err := fs.Parse(args); err != nil {
		return payment.Request{}, err
	}

	if *uid == "" {
		*uid = uuid.NewString()
	}
	if *memo == "" {
		*memo = *uid
	}

	return payment.Request{
		Amount:    *amount,
		Memo:      *memo,
		Metadata:  map[string]any{"source": "pinet-cli"},
		UID:       *uid,
		Recipient: *recipient,
	}, nil
}

func identifierArg(args []string) (string, error) {
	if len(args) < 1 || args[0] == "" {
		return "", errors.New("a payment identifier is required")
	}
	return args[0], nil
}

func runBalance(client *pinet.Client) error {
	balance, err := client.Balance()
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", client.Address(), color.GreenString("%s π", funds.FormatAmount(balance)))
	return nil
}

func runGet(ctx context.Context, client *pinet.Client, args []string) error {
	id, err := identifierArg(args)
	if err != nil {
		return err
	}
	rec, err := client.GetPayment(ctx, id)
	if err != nil {
		return err
	}
	printRecord(rec)
	return nil
}

func runCreate(ctx context.Context, client *pinet.Client, args []string) error {
	req, err := parsePaymentFlags("create", args)
	if err != nil {
		return err
	}
	id, err := client.CreatePayment(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runRecordOp(ctx context.Context, op func(context.Context, string) (payment.Record, error), args []string) error {
	id, err := identifierArg(args)
	if err != nil {
		return err
	}
	rec, err := op(ctx, id)
	if err != nil {
		return err
	}
	printRecord(rec)
	return nil
}

func runSubmit(ctx context.Context, client *pinet.Client, args []string) error {
	id, err := identifierArg(args)
	if err != nil {
		return err
	}
	outcome, err := client.SubmitPayment(ctx, id, nil)
	if err != nil {
		if outcome.EntryDiscarded {
			color.Yellow("submission attempt %s failed after reaching the ledger; reconcile with 'pinet incomplete'", outcome.AttemptID)
		}
		return err
	}
	fmt.Println(outcome.TxID)
	return nil
}

func runComplete(ctx context.Context, client *pinet.Client, args []string) error {
	id, err := identifierArg(args)
	if err != nil {
		return err
	}
	txid := ""
	if len(args) > 1 {
		txid = args[1]
	}
	rec, err := completeWithRetry(ctx, client, id, txid)
	if err != nil {
		return err
	}
	printRecord(rec)
	return nil
}

func runIncomplete(ctx context.Context, client *pinet.Client) error {
	recs, err := client.IncompleteServerPayments(ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no incomplete server payments")
		return nil
	}
	for _, rec := range recs {
		printRecord(rec)
	}
	return nil
}

// runPay drives the full app-to-user flow: create, approve, submit on the
// ledger, then mark complete with the ledger transaction id.
func runPay(ctx context.Context, client *pinet.Client, args []string) error {
	req, err := parsePaymentFlags("pay", args)
	if err != nil {
		return err
	}

	id, err := client.CreatePayment(ctx, req)
	if err != nil {
		return err
	}
	color.Blue("created %s", id)

	if _, err := client.ApprovePayment(ctx, id); err != nil {
		return fmt.Errorf("failed to approve payment %s: %w", id, err)
	}
	color.Blue("approved %s", id)

	outcome, err := client.SubmitPayment(ctx, id, nil)
	if err != nil {
		if outcome.EntryDiscarded {
			color.Yellow("submission attempt %s failed after reaching the ledger; reconcile with 'pinet incomplete'", outcome.AttemptID)
		}
		return fmt.Errorf("failed to submit payment %s: %w", id, err)
	}
	color.Blue("submitted %s as %s", id, outcome.TxID)

	rec, err := completeWithRetry(ctx, client, id, outcome.TxID)
	if err != nil {
		return fmt.Errorf("payment %s settled as %s but could not be completed: %w", id, outcome.TxID, err)
	}
	color.Green("completed %s", rec.Identifier)
	return nil
}

// completeWithRetry retries the complete call with exponential backoff.
// Completing is idempotent on the platform side, so retrying is safe; it is
// the one call worth retrying because by then the money has already moved.
func completeWithRetry(ctx context.Context, client *pinet.Client, id, txid string) (payment.Record, error) {
	var rec payment.Record
	op := func() error {
		var err error
		rec, err = client.CompletePayment(ctx, id, txid)
		return err
	}
	bckoff := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(2*time.Minute),
	), ctx)
	if err := backoff.Retry(op, bckoff); err != nil {
		return payment.Record{}, err
	}
	return rec, nil
}

func printRecord(rec payment.Record) {
	status := "open"
	switch {
	case rec.Status.Cancelled || rec.Status.UserCancelled:
		status = color.RedString("cancelled")
	case rec.Status.DeveloperCompleted:
		status = color.GreenString("completed")
	case rec.Status.DeveloperApproved:
		status = color.BlueString("approved")
	}
	txid := ""
	if rec.Transaction != nil {
		txid = rec.Transaction.TxID
	}
	fmt.Printf("%s  %s π  uid=%s  status=%s  txid=%s\n", rec.Identifier, rec.Amount.String(), rec.UserUID, status, txid)
}
