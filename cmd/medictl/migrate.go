package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//go:embed schema.sql
var schemaSQL string

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Apply the embedded PostgreSQL schema. Every statement is idempotent,
so the command can be re-run safely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), opts.DSN, cmd)
		},
	}
}

func runMigrate(ctx context.Context, dsn string, cmd *cobra.Command) error {
	db, err := openDB(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin migration")
	}
	defer func() { _ = tx.Rollback() }()

	// lib/pq runs a parameterless multi-statement string as one simple query.
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit migration")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")

	return nil
}
