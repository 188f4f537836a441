// Command voucher-wait polls a running server until the voucher for a payment is issued
// and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"reservaMesa/internal/modules/reservations/application/usecase"
	"reservaMesa/internal/modules/reservations/domain"
	"reservaMesa/internal/modules/reservations/infrastructure"
)

type options struct {
	baseURL   string
	paymentID string
	interval  time.Duration
	attempts  int
	timeout   time.Duration
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "voucher-wait: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := infrastructure.NewVoucherHTTPClient(opts.baseURL, opts.timeout, nil)
	voucher, err := usecase.AwaitVoucher(ctx, fetcher, opts.paymentID, usecase.PollConfig{
		Interval:    opts.interval,
		MaxAttempts: opts.attempts,
	})
	if err != nil {
		if errors.Is(err, domain.ErrVoucherTimeout) {
			fmt.Fprintf(stderr, "voucher-wait: voucher for %s not issued after %d attempts\n", opts.paymentID, opts.attempts)
			return 1
		}
		fmt.Fprintf(stderr, "voucher-wait: %v\n", err)
		return 1
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(voucher); err != nil {
		fmt.Fprintf(stderr, "voucher-wait: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("voucher-wait", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "server base URL")
	flagSet.StringVarP(&opts.paymentID, "payment-id", "p", "", "payment ID returned when the reservation was created")
	flagSet.DurationVar(&opts.interval, "interval", usecase.DefaultPollInterval, "delay between polls")
	flagSet.IntVar(&opts.attempts, "attempts", usecase.DefaultPollMaxAttempts, "maximum number of polls")
	flagSet.DurationVar(&opts.timeout, "timeout", 5*time.Second, "per request timeout")

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if opts.paymentID == "" && flagSet.NArg() > 0 {
		opts.paymentID = flagSet.Arg(0)
	}
	if opts.paymentID == "" {
		return opts, errors.New("--payment-id is required")
	}
	if opts.attempts <= 0 || opts.interval <= 0 {
		return opts, errors.New("--attempts and --interval must be positive")
	}
	return opts, nil
}
