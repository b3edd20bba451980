package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/spec-kit/volunteer-service/internal/service"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

type createAdminOptions struct {
	email      string
	password   string
	name       string
	superAdmin bool
}

// NewCreateAdminCommand creates the create-admin command. It is the only way to
// bootstrap the first super admin.
func NewCreateAdminCommand(open BackendFactory) *cobra.Command {
	opts := &createAdminOptions{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a dashboard admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer backend.Close()

			input := service.AdminCreateInput{
				Email:        opts.email,
				Password:     opts.password,
				IsSuperAdmin: opts.superAdmin,
			}
			if opts.name != "" {
				input.Name = &opts.name
			}

			admin, err := backend.CreateAdmin(cmd.Context(), input)
			if err != nil {
				return describe(err)
			}

			role := "admin"
			if admin.IsSuperAdmin {
				role = "super admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (id %d)\n", role, admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "admin email address")
	cmd.Flags().StringVar(&opts.password, "password", "", "initial password (min 8 characters)")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name")
	cmd.Flags().BoolVar(&opts.superAdmin, "super-admin", false, "grant the super admin role")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// describe flattens validation details into the message printed to the operator.
func describe(err error) error {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || len(domainErr.Details) == 0 {
		return err
	}
	fields := make([]string, 0, len(domainErr.Details))
	for field := range domainErr.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	msg := domainErr.Message
	for _, field := range fields {
		msg += fmt.Sprintf("; %s: %v", field, domainErr.Details[field])
	}
	return errors.New(msg)
}
