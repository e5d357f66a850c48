// Package admincli implements flatadmin, the operator tool for schema
// migrations, admin accounts and flat photo uploads.
package admincli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/flatfinder/internal/logging"
	"github.com/dmitrijs2005/flatfinder/internal/server/auth"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flatfinder/internal/server/services"
	"github.com/dmitrijs2005/flatfinder/internal/server/validate"
	"github.com/spf13/cobra"
)

// Opener connects to the store named by dsn.
type Opener func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error)

// OpenPostgres is the default Opener.
func OpenPostgres(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	return repomanager.OpenPostgres(ctx, dsn)
}

type options struct {
	dsn        string
	bcryptCost int
	logLevel   string
}

// NewRootCmd builds the flatadmin command tree.
func NewRootCmd(open Opener) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "flatadmin",
		Short:         "FlatFinder administration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", os.Getenv("DATABASE_DSN"), "PostgreSQL DSN (default $DATABASE_DSN)")
	root.PersistentFlags().IntVar(&opts.bcryptCost, "bcrypt-cost", 10, "bcrypt cost for new passwords")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		migrateCmd(opts, open),
		createAdminCmd(opts, open),
		setAdminCmd(opts, open, "promote", "Grant admin rights to a user", true),
		setAdminCmd(opts, open, "demote", "Revoke admin rights from a user", false),
		uploadPhotoCmd(opts, open),
	)
	return root
}

func (o *options) connect(ctx context.Context, open Opener) (repomanager.RepositoryManager, error) {
	if o.dsn == "" {
		return nil, errors.New("no database DSN: set --dsn or DATABASE_DSN")
	}
	rm, err := open(ctx, o.dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	return rm, nil
}

func (o *options) userService(cmd *cobra.Command, rm repomanager.RepositoryManager) (*services.UserService, error) {
	creds, err := auth.NewCredentials("", 0, o.bcryptCost)
	if err != nil {
		return nil, err
	}
	log := logging.NewJSONLogger(cmd.ErrOrStderr(), o.logLevel)
	return services.NewUserService(rm, creds, services.DeletePolicy{}, log), nil
}

func migrateCmd(opts *options, open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rm, err := opts.connect(cmd.Context(), open)
			if err != nil {
				return err
			}
			defer rm.Close()

			if err := rm.RunMigrations(cmd.Context()); err != nil {
				return fmt.Errorf("migration error: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}

func createAdminCmd(opts *options, open Opener) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a user with admin rights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			w := cmd.OutOrStdout()

			raw := validate.Raw{}
			if email == "" {
				v, err := getSimpleText(reader, "Email", w)
				if err != nil {
					return err
				}
				email = v
			}
			raw[validate.FieldEmail] = email

			for _, f := range []struct{ field, prompt string }{
				{validate.FieldFirstName, "First name"},
				{validate.FieldLastName, "Last name"},
				{validate.FieldBirthDate, "Birth date (YYYY-MM-DD)"},
			} {
				v, err := getSimpleText(reader, f.prompt, w)
				if err != nil {
					return err
				}
				raw[f.field] = v
			}

			pw, err := getPassword(reader, w)
			if err != nil {
				return err
			}
			raw[validate.FieldPassword] = pw

			rm, err := opts.connect(cmd.Context(), open)
			if err != nil {
				return err
			}
			defer rm.Close()

			us, err := opts.userService(cmd, rm)
			if err != nil {
				return err
			}

			u, err := us.CreateAdmin(cmd.Context(), raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Admin %s created (id %s).\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (prompted when empty)")
	return cmd
}

func setAdminCmd(opts *options, open Opener, use, short string, admin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rm, err := opts.connect(cmd.Context(), open)
			if err != nil {
				return err
			}
			defer rm.Close()

			us, err := opts.userService(cmd, rm)
			if err != nil {
				return err
			}

			u, err := us.SetAdmin(cmd.Context(), args[0], admin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s admin=%t\n", u.Email, u.Admin)
			return nil
		},
	}
}
