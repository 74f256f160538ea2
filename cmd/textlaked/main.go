package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	kconf "github.com/textlake/textlake/pkg/configs/server"
	"github.com/textlake/textlake/pkg/domain/analysis/analyzer"
	"github.com/textlake/textlake/pkg/domain/bootstrap"
	"github.com/textlake/textlake/pkg/domain/corpus"
	dbi "github.com/textlake/textlake/pkg/domain/textlake/db"
	kpgtextlake "github.com/textlake/textlake/pkg/domain/textlake/db/postgres"
	"github.com/textlake/textlake/pkg/logging"
	"github.com/textlake/textlake/pkg/metrics"
	"github.com/textlake/textlake/pkg/utils/filewatch"
	"github.com/textlake/textlake/pkg/utils/retry"
)

var version = "dev"

const (
	envConfig = "TEXTLAKE_CONFIG"
	envCorpus = "TEXTLAKE_CORPUS"
)

func main() {
	configPath := flag.String("config", os.Getenv(envConfig), "server config path")
	corpusRoot := flag.String("corpus", os.Getenv(envCorpus), "corpus directory (overrides config)")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pretty := flag.Bool("log-pretty", false, "pretty-print logs for development")
	flag.Parse()

	logger := logging.New(logging.Config{Level: *loglevel, Pretty: *pretty})

	if *configPath == "" {
		logger.Fatal().Msgf("no config: pass -config or set %s", envConfig)
	}
	conf, err := kconf.LoadServerConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("can not read configuration")
	}

	root := conf.Corpus().Root()
	if *corpusRoot != "" {
		root = *corpusRoot
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	db, err := connectToStore(ctx, logger, conf)
	if err != nil {
		logger.Fatal().Err(err).Msg("can not reach the store")
	}
	defer db.Close()

	m := metrics.New()

	outcome := bootstrap.New(
		db.Bootstrap(),
		db.Document(),
		corpus.Dir(root),
		bootstrap.WithLogger(logger),
	).Run(ctx)
	m.StartupOutcomesTotal.WithLabelValues(string(outcome.Code)).Inc()
	m.DocumentsSeeded.Set(float64(outcome.Documents))
	if outcome.Code == bootstrap.Failed {
		logger.Fatal().Err(outcome.Err).Msg("startup coordination failed")
	}

	// a changed corpus directory needs a fresh coordination run; quit
	// and let the supervisor restart the process.
	watchCtx := ctx
	if _, err := os.Stat(root); err == nil {
		wcx, cancel, err := filewatch.UntilModifyContext(ctx, root)
		if err != nil {
			logger.Fatal().Err(err).Str("corpus", root).Msg("can not watch the corpus")
		}
		defer cancel()
		watchCtx = wcx
	}

	anl := analyzer.New(conf.Analyzer().Workers())
	e := BuildServer(db, anl, m, *loglevel, version)

	done := make(chan error, 1)
	go func() {
		done <- e.Start(fmt.Sprintf(":%d", conf.Port()))
	}()
	logger.Info().Int32("port", conf.Port()).Str("outcome", string(outcome.Code)).
		Msg("textlake is serving")

	select {
	case err := <-done:
		logger.Fatal().Err(err).Msg("server stopped unexpectedly")
	case <-watchCtx.Done():
		logger.Info().Msg("shutting down")
		graceful, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			logger.Error().Err(err).Msg("error on shutdown")
		}
	}
}

// connectToStore connects and waits for the store to accept queries, so
// the process survives booting before its database does.
func connectToStore(
	ctx context.Context, logger zerolog.Logger, conf *kconf.ServerConfig,
) (dbi.TextLakeDatabase, error) {
	db, err := kpgtextlake.New(
		ctx, conf.Database(),
		kpgtextlake.WithLockKey(conf.Corpus().LockKey()),
	)
	if err != nil {
		return nil, err
	}

	_, err = retry.Blocking(ctx, retry.StaticBackoff(time.Second), func() (struct{}, error) {
		if err := db.Ping(ctx); err != nil {
			logger.Info().Err(err).Msg("waiting for the store")
			return struct{}{}, fmt.Errorf("store not ready: %w", retry.ErrRetry)
		}
		return struct{}{}, nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
