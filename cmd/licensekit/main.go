// Command licensekit syncs the choosealicense.com catalog into a local
// cache and serves license queries from it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	licensekit "github.com/goliatone/go-licensekit"
	"github.com/goliatone/go-licensekit/internal/display"
	"github.com/goliatone/go-licensekit/internal/prompt"
	"github.com/goliatone/go-licensekit/pkg/catalog"
)

// Exit codes, stable for scripting.
const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitNotFound   = 3
	exitFetch      = 4
	exitWriteError = 5
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	client   *licensekit.Client
	renderer *display.Renderer
	prompter prompt.Driver
	logger   *log.Logger
	stdout   io.Writer
	stderr   io.Writer
	refresh  bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("licensekit", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	refresh := global.Bool("refresh", false, "force a catalog sync before running the command")
	verbose := global.BoolP("verbose", "v", false, "log sync and cache activity to stderr")
	noColor := global.Bool("no-color", false, "disable ANSI colors")
	cacheFile := global.String("cache-file", "", "catalog cache location (default: user cache dir)")
	prefsFile := global.String("prefs-file", "", "saved placeholder location (default: user cache dir)")
	global.Usage = func() {
		fmt.Fprint(stderr, usageText)
		global.PrintDefaults()
	}

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return exitUsage
	}

	var options []licensekit.Option
	if *cacheFile != "" {
		options = append(options, licensekit.WithCachePath(*cacheFile))
	}
	if *prefsFile != "" {
		options = append(options, licensekit.WithPreferencesPath(*prefsFile))
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		options = append(options, licensekit.WithToken(token))
	}

	client, err := licensekit.New(options...)
	if err != nil {
		fmt.Fprintf(stderr, "licensekit: %v\n", err)
		return exitFailure
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(stderr, "licensekit: ", 0)
	}

	a := &app{
		client:   client,
		renderer: display.New(display.WithWriter(stdout), display.WithColor(!*noColor)),
		prompter: prompt.NewSurveyDriver(),
		logger:   logger,
		stdout:   stdout,
		stderr:   stderr,
		refresh:  *refresh,
	}

	command, commandArgs := rest[0], rest[1:]
	code, err := a.dispatch(ctx, command, commandArgs)
	if err != nil {
		fmt.Fprintf(stderr, "licensekit: %v\n", err)
	}
	return code
}

func (a *app) dispatch(ctx context.Context, command string, args []string) (int, error) {
	switch command {
	case "list":
		return a.cmdList(ctx, args, false)
	case "detailed-list":
		return a.cmdList(ctx, args, true)
	case "info":
		return a.cmdInfo(ctx, args)
	case "show-placeholders":
		return a.cmdPlaceholders(ctx, args)
	case "compare":
		return a.cmdCompare(ctx, args)
	case "find":
		return a.cmdFind(ctx, args)
	case "license":
		return a.cmdLicense(ctx, args)
	case "set-placeholder":
		return a.cmdSetPlaceholder(args)
	case "get-placeholder":
		return a.cmdGetPlaceholder(args)
	case "clear-placeholders":
		return a.cmdClearPlaceholders(args)
	case "sync":
		return a.cmdSync(ctx)
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n%s", command, usageText)
		return exitUsage, nil
	}
}

// ensureCatalog refreshes the cache when --refresh was given or the cache is
// still empty, and reports the outcome when anything notable happened.
func (a *app) ensureCatalog(ctx context.Context) error {
	var (
		report licensekit.Report
		err    error
	)
	if a.refresh {
		a.logger.Println("forcing catalog refresh")
		report, err = a.client.Refresh(ctx, true)
	} else {
		report, err = a.client.EnsureCatalog(ctx)
	}
	if err != nil {
		return err
	}
	a.logger.Printf("catalog ready: %d licenses", report.Total)
	if report.Changed() || report.Degraded || len(report.Warnings) > 0 {
		reporter := display.New(display.WithWriter(a.stderr))
		if err := reporter.SyncReport(report); err != nil {
			return err
		}
	}
	return nil
}

// exitCode maps the error taxonomy onto stable process exit codes.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var (
		validation *catalog.ValidationError
		notFound   *catalog.NotFoundError
		fetch      *catalog.FetchError
		write      *catalog.WriteError
	)
	switch {
	case errors.As(err, &validation):
		return exitUsage
	case errors.As(err, &notFound):
		return exitNotFound
	case errors.As(err, &fetch):
		return exitFetch
	case errors.As(err, &write):
		return exitWriteError
	default:
		return exitFailure
	}
}

const usageText = `usage: licensekit [flags] <command> [args]

commands:
  list [ids...]                 list cached license ids
  detailed-list [ids...]        list ids with titles and nicknames
  info <id>                     show the full detail panel for one license
  show-placeholders <id>        show the blanks a license expects
  compare [ids...]              rule matrix across licenses
  find [-r tags] [-d tags]      find licenses by required/disallowed rules
  license <id> [flags]          render a license with placeholders filled
  set-placeholder <key> <value> save a placeholder value for future renders
  get-placeholder [key]         show saved placeholder values
  clear-placeholders [keys...]  drop saved placeholder values
  sync                          refresh the catalog cache

flags:
`
