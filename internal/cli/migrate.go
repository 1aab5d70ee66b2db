package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/usersvc/internal/store"
)

// MigrateResult is the output of the migrate command.
type MigrateResult struct {
	Driver  string `json:"driver"`
	Version int64  `json:"version"`
}

func (r MigrateResult) String() string {
	return fmt.Sprintf("%s schema at version %d", r.Driver, r.Version)
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := rootOpts.formatter(cmd)

			cfg, err := rootOpts.loadConfig(cmd)
			if err != nil {
				return f.Fail(err)
			}

			version, err := store.Migrate(cmd.Context(), cfg.Database)
			if err != nil {
				return f.Fail(err)
			}

			return f.Success(MigrateResult{Driver: cfg.Database.Driver, Version: version})
		},
	}
}
