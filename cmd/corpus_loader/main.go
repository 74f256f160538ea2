package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/textlake/textlake/pkg/domain/bootstrap"
	"github.com/textlake/textlake/pkg/domain/corpus"
	kpgtextlake "github.com/textlake/textlake/pkg/domain/textlake/db/postgres"
	"github.com/textlake/textlake/pkg/logging"
	"github.com/textlake/textlake/pkg/utils/try"
	"github.com/youta-t/flarc"
)

// corpus_loader runs the startup coordination once and exits: useful as
// an init container or a manual (re)load against a fresh database.

type Flag struct {
	Host     string `flag:"host" help:"The host of the database."`
	Port     int    `flag:"port" help:"The port of the database."`
	User     string `flag:"user" help:"The user of the database."`
	Password string `flag:"pass" help:"The password of the database."`
	Database string `flag:"database" help:"The name of the database."`

	Corpus  string `flag:"corpus" help:"The directory holding the corpus *.txt files."`
	LockKey int64  `flag:"lock-key" help:"The advisory lock key for coordination."`

	Loglevel string `flag:"loglevel" help:"Log level. debug|info|warn|error."`
}

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt, os.Kill,
	)
	defer cancel()

	port := 5432
	if sp := os.Getenv("DB_PORT"); sp != "" {
		p, err := strconv.Atoi(sp)
		if err == nil {
			port = p
		}
	}

	cmd := try.To(flarc.NewCommand(
		"load the initial corpus into the document store",
		Flag{
			Host:     os.Getenv("DB_HOST"),
			Port:     port,
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Database: os.Getenv("DB_NAME"),

			Corpus:   os.Getenv("TEXTLAKE_CORPUS"),
			Loglevel: "info",
		},
		flarc.Args{},
		func(ctx context.Context, c flarc.Commandline[Flag], _ []any) error {
			flags := c.Flags()

			zlog := logging.New(logging.Config{
				Level:  flags.Loglevel,
				Output: c.Stderr(),
			})

			options := []kpgtextlake.Option{}
			if flags.LockKey != 0 {
				options = append(options, kpgtextlake.WithLockKey(flags.LockKey))
			}

			db, err := kpgtextlake.New(
				ctx,
				fmt.Sprintf(
					"postgres://%s:%s@%s:%d/%s",
					flags.User, flags.Password, flags.Host, flags.Port, flags.Database,
				),
				options...,
			)
			if err != nil {
				return err
			}
			defer db.Close()

			outcome := bootstrap.New(
				db.Bootstrap(),
				db.Document(),
				corpus.Dir(flags.Corpus),
				bootstrap.WithLogger(zlog),
			).Run(ctx)

			if outcome.Code == bootstrap.Failed {
				return outcome.Err
			}
			fmt.Fprintln(c.Stdout(), outcome)
			return nil
		},
	)).OrFatal(logger)

	os.Exit(flarc.Run(ctx, cmd))
}
