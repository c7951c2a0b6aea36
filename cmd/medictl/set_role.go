package main

import (
	"context"
	"fmt"
	"strings"

	"medistore/internal/domain/entity"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type setRoleOptions struct {
	Email string
	Role  string
}

func newSetRoleCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &setRoleOptions{}

	cmd := &cobra.Command{
		Use:   "set-role",
		Short: "Assign a role to an existing account",
		Long: `Assign a role to the account with the given email. Used to bootstrap the
first ADMIN, who can then manage roles through the API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, err := parseRole(opts.Role)
			if err != nil {
				return err
			}

			return runSetRole(cmd.Context(), rootOpts.DSN, opts.Email, role, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "email of the account")
	cmd.Flags().StringVar(&opts.Role, "role", string(entity.RoleAdmin), "CUSTOMER, SELLER, MANAGER or ADMIN")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func parseRole(raw string) (entity.Role, error) {
	role := entity.Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.IsValid() {
		return "", errors.Errorf("unknown role %q", raw)
	}

	return role, nil
}

func runSetRole(ctx context.Context, dsn, email string, role entity.Role, cmd *cobra.Command) error {
	db, err := openDB(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	email = strings.ToLower(strings.TrimSpace(email))
	result, err := db.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE email = $2`,
		string(role), email,
	)
	if err != nil {
		return errors.Wrap(err, "update role")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return errors.Errorf("no account with email %q", email)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", email, role)

	return nil
}
