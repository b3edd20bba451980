package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/service"
)

// Backend is the storage the operator commands act on.
type Backend interface {
	Migrate(ctx context.Context) error
	CreateAdmin(ctx context.Context, input service.AdminCreateInput) (*domain.AdminUser, error)
	Close()
}

// BackendFactory opens a Backend for one command invocation.
type BackendFactory func(ctx context.Context) (Backend, error)

// NewRootCommand creates the root command for volunteerctl.
func NewRootCommand(open BackendFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "volunteerctl",
		Short:         "Operator tasks for the volunteer signup service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewMigrateCommand(open))
	cmd.AddCommand(NewCreateAdminCommand(open))

	return cmd
}
