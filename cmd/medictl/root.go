package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// dsnEnv is read when --dsn is not given.
const dsnEnv = "MEDISTORE_DSN"

type rootOptions struct {
	DSN string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "medictl",
		Short:         "MediStore operations tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", os.Getenv(dsnEnv),
		"PostgreSQL connection string (defaults to $"+dsnEnv+")")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSetRoleCommand(opts))

	return cmd
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("a database DSN is required (--dsn or $" + dsnEnv + ")")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "ping database")
	}

	return db, nil
}
