package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/usersvc/internal/core"
	"github.com/JonMunkholm/usersvc/internal/store"
)

// CountResult is the output of the count command.
type CountResult struct {
	Count int64 `json:"count"`
}

func (r CountResult) String() string {
	return fmt.Sprintf("%d users", r.Count)
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the total number of users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := rootOpts.formatter(cmd)

			cfg, err := rootOpts.loadConfig(cmd)
			if err != nil {
				return f.Fail(err)
			}

			s, closeStore, err := store.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return f.Fail(err)
			}
			defer closeStore()

			n, err := core.NewService(s, cfg.Users).CountUsers(cmd.Context())
			if err != nil {
				return f.Fail(err)
			}

			return f.Success(CountResult{Count: n})
		},
	}
}
