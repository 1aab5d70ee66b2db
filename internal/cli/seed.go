package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/usersvc/internal/core"
	"github.com/JonMunkholm/usersvc/internal/store"
)

// SeedResult is the output of the seed command.
type SeedResult struct {
	Count  int         `json:"count"`
	Sample []core.User `json:"sample"`
}

func (r SeedResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "seeded %d users", r.Count)
	for _, u := range r.Sample {
		fmt.Fprintf(&b, "\n  %s  %-24s %s", u.ID, u.Name, u.Email)
	}
	return b.String()
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert synthetic users",
		Long: `Insert synthetic users with unique generated emails.

Without --count the configured default (USERS_SEED_DEFAULT_COUNT) is used.`,
		Args: cobra.NoArgs,
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

			res, err := core.NewService(s, cfg.Users).Seed(cmd.Context(), count)
			if err != nil {
				return f.Fail(err)
			}

			sample := res.Sample
			if sample == nil {
				sample = []core.User{}
			}
			return f.Success(SeedResult{Count: res.Count, Sample: sample})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of users to create")

	return cmd
}
