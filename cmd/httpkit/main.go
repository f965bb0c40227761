// Command httpkit sends one HTTP request through the configured client and
// writes the response body to stdout.
//
//	httpkit -c config.yml -X POST -H 'X-Team: core' -d @payload.json --json /v1/items
//
// The configuration selects the plain client or the middleware chain; see
// package config for the file format and environment overrides.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	fmt.Fprintln(os.Stderr, "httpkit:", err)
	os.Exit(1)
}
