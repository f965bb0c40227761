package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/httpkit/compat"
	"github.com/kbukum/httpkit/config"
	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/httpclient/sse"
	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/observability"
)

var errUsage = errors.New("usage: httpkit [flags] URL")

const shutdownTimeout = 5 * time.Second

type options struct {
	configFile string
	envFile    string
	method     string
	headers    []string
	data       string
	json       bool
	timeout    time.Duration
	include    bool
	fail       bool
	events     bool
	url        string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := pflag.NewFlagSet("httpkit", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, errUsage)
		fs.PrintDefaults()
	}
	fs.StringVarP(&o.configFile, "config", "c", "", "configuration file (searched for when omitted)")
	fs.StringVar(&o.envFile, "env-file", "", ".env file (searched for when omitted)")
	fs.StringVarP(&o.method, "request", "X", http.MethodGet, "request method")
	fs.StringArrayVarP(&o.headers, "header", "H", nil, "request header 'Name: value', repeatable")
	fs.StringVarP(&o.data, "data", "d", "", "request body; @file reads a file and @- reads stdin")
	fs.BoolVar(&o.json, "json", false, "mark the body and the accepted response as application/json")
	fs.DurationVar(&o.timeout, "timeout", 0, "request timeout, overriding client.timeout when shorter")
	fs.BoolVarP(&o.include, "include", "i", false, "print the status line and response headers")
	fs.BoolVarP(&o.fail, "fail", "f", false, "fail on HTTP status 400 and above")
	fs.BoolVar(&o.events, "events", false, "read the response as a server-sent event stream, one event per line")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, errUsage
	}
	o.url = fs.Arg(0)
	o.method = strings.ToUpper(o.method)
	return o, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	var loadOpts []config.Option
	if o.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(o.envFile))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return err
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, stderr)

	shutdown, err := observability.Setup(ctx, cfg.Observability, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		err = errors.Join(err, shutdown(sctx))
	}()

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	log.Debug("client ready", logger.Fields("backend", client.Backend().String()))

	b, err := buildRequest(client, o, stdin)
	if err != nil {
		return err
	}
	resp, err := b.Send(ctx)
	if err != nil {
		log.WithError(err).Error("request failed", logger.Fields(
			logger.FieldMethod, o.method,
			"kind", errorKind(err),
		))
		return err
	}
	defer resp.Body.Close()

	if o.include {
		writeHead(stdout, resp)
	}
	if o.fail {
		if err := httpclient.ErrorForStatus(resp); err != nil {
			return err
		}
	}
	if o.events {
		return writeEvents(stdout, resp, log)
	}
	if _, err := io.Copy(stdout, resp.Body); err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	return nil
}

// writeEvents prints "<event> <data>" per event, "message" standing in for
// an unnamed event. Multi-line data keeps its newlines escaped.
func writeEvents(w io.Writer, resp *http.Response, log *logger.Logger) error {
	r, err := sse.FromResponse(resp)
	if err != nil {
		return err
	}
	defer r.Close()
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read events: %w", err)
		}
		name := ev.Event
		if name == "" {
			name = "message"
		}
		log.Debug("event received", logger.Fields("event", name, "id", ev.ID))
		fmt.Fprintf(w, "%s %s\n", name, strings.ReplaceAll(ev.Data, "\n", `\n`))
	}
}

func newClient(cfg *config.Config, log *logger.Logger) (*compat.Client, error) {
	inner, err := httpclient.New(cfg.Client)
	if err != nil {
		return nil, err
	}
	if !cfg.Middleware.Enabled {
		return compat.FromPlain(inner), nil
	}
	return newMiddlewareClient(inner, cfg.Middleware, log)
}

func buildRequest(client *compat.Client, o options, stdin io.Reader) (*compat.RequestBuilder, error) {
	b := client.Request(o.method, o.url)
	for _, h := range o.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("header %q: want 'Name: value'", h)
		}
		b.Header(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	if o.json {
		b.Header("Accept", "application/json")
	}

	if o.data != "" {
		body, err := readData(o.data, stdin)
		if err != nil {
			return nil, err
		}
		b.Body(body)
		if o.json {
			b.Header("Content-Type", "application/json")
		}
	}
	if o.timeout > 0 {
		b.Timeout(o.timeout)
	}
	return b, nil
}

func readData(data string, stdin io.Reader) ([]byte, error) {
	switch {
	case data == "@-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(data, "@"):
		return os.ReadFile(data[1:])
	default:
		return []byte(data), nil
	}
}

func writeHead(w io.Writer, resp *http.Response) {
	fmt.Fprintf(w, "%s %s\n", resp.Proto, resp.Status)
	for _, k := range slices.Sorted(maps.Keys(resp.Header)) {
		for _, v := range resp.Header[k] {
			fmt.Fprintf(w, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintln(w)
}

func errorKind(err error) string {
	var ce *compat.Error
	if errors.As(err, &ce) {
		return ce.Kind.String()
	}
	if httpclient.IsBuilder(err) {
		return "builder"
	}
	return "unknown"
}
