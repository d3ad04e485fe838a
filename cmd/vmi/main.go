package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/pflag"

	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/metrics"
	"github.com/mediainsights/vmi/internal/services"
)

const usage = `Usage:
  vmi show <title> [<title>...]     summarize one or more shows
  vmi show --remove <title>         drop a cached show
  vmi director <name|nm-id>         summarize a director's films
  vmi reviews <tt-id>               print the featured user reviews

Flags:
`

var directorIDPattern = regexp.MustCompile(`^nm\d+$`)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("vmi", pflag.ContinueOnError)
	remove := flags.Bool("remove", false, "remove the cached show instead of summarizing it")
	flags.String("log_level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("cache.provider", "file", "cache backend: file, memory, redis or badger")
	flags.String("cache.dir", "./cache", "directory of the file and badger backends")
	flags.Float64("requests_per_second", 2, "upstream request rate, 0 for unlimited")
	flags.Bool("metrics.enabled", false, "serve Prometheus metrics while running")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() < 2 {
		flags.Usage()
		return 2
	}

	cfg, err := config.LoadConfigWithFlags(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	logger := config.GetLogger()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Metrics.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	library, err := services.Open(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize media library")
		sentry.CaptureException(err)
		return 1
	}
	defer func() {
		if err := library.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close media library")
		}
	}()

	command, operands := flags.Arg(0), flags.Args()[1:]
	if err := dispatch(ctx, library, command, operands, *remove); err != nil {
		logger.Error().Err(err).Str("command", command).Msg("Command failed")
		sentry.CaptureException(err)
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, library services.MediaLibrary, command string, operands []string, remove bool) error {
	switch command {
	case "show":
		for _, title := range operands {
			if remove {
				if err := library.RemoveShow(ctx, title); err != nil {
					return err
				}
				fmt.Printf("Removed %q from the cache\n", title)
				continue
			}
			show, err := library.GetShow(ctx, title)
			if err != nil {
				return err
			}
			if err := printShow(os.Stdout, show); err != nil {
				return err
			}
		}
		return nil

	case "director":
		if len(operands) != 1 {
			return fmt.Errorf("director takes exactly one name or id, got %d", len(operands))
		}
		getDirector := library.GetDirectorByName
		if directorIDPattern.MatchString(operands[0]) {
			getDirector = library.GetDirector
		}
		director, err := getDirector(ctx, operands[0])
		if err != nil {
			return err
		}
		return printDirector(os.Stdout, director)

	case "reviews":
		if len(operands) != 1 {
			return fmt.Errorf("reviews takes exactly one title id, got %d", len(operands))
		}
		reviews, err := library.GetTopReviews(ctx, operands[0])
		if err != nil {
			return err
		}
		printReviews(os.Stdout, reviews)
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
