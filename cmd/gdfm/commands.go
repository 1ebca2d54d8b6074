package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/travishathaway/gdfm/internal/database"
	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gdfm",
		Short:        "Collect pull requests, reviews and timeline events from GitHub",
		SilenceUsage: true,
	}

	root.AddCommand(
		newInitCmd(),
		newReposCmd(),
		newTotalCmd(),
		newCollectCmd(),
		newCollectSubsetCmd(),
		newStatsCmd(),
		newCleanCmd(),
		newServeCmd(),
	)
	return root
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init OWNER/NAME MAINTAINER...",
		Short: "Start tracking a repository",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			repo, maintainers, err := a.projectUseCase().InitProject(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"repository":  repo,
				"maintainers": maintainers,
			})
		},
	}
}

func newReposCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List tracked repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			repos, err := a.projectUseCase().ListRepositories(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range repos {
				fmt.Fprintln(cmd.OutOrStdout(), r.FullName())
			}
			return nil
		},
	}
}

func newTotalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "total OWNER/NAME",
		Short: "Resolve how many pages a full collection needs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := domain.ParseRepositoryPath(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			uc, err := a.collectorUseCase()
			if err != nil {
				return err
			}
			total, err := uc.ResolveTotal(cmd.Context(), owner, name)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), total)
		},
	}
}

func newCollectCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "collect OWNER/NAME",
		Short: "Collect every pull request with its reviews and events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := domain.ParseRepositoryPath(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			uc, err := a.collectorUseCase()
			if err != nil {
				return err
			}
			summary, err := uc.CollectAll(cmd.Context(), owner, name, concurrency)
			return printSummary(cmd, summary, err)
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "maximum in-flight remote requests (default COLLECT_CONCURRENCY)")
	return cmd
}

func newCollectSubsetCmd() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "collect-subset OWNER/NAME [NUMBER...]",
		Short: "Re-collect reviews and events of stored pull requests",
		Long: "Re-collect reviews and events of the given stored pull requests, " +
			"or of every stored pull request when no number is given. " +
			"Items are processed one at a time, COLLECT_SUBSET_DELAY apart.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := domain.ParseRepositoryPath(args[0])
			if err != nil {
				return err
			}
			numbers, err := parseNumbers(args[1:])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if only != "" {
				if _, err := domain.ParseCollectKinds(only); err != nil {
					return err
				}
				a.cfg.Collector.Kinds = only
			}

			uc, err := a.collectorUseCase()
			if err != nil {
				return err
			}
			summary, err := uc.CollectSubset(cmd.Context(), owner, name, numbers)
			return printSummary(cmd, summary, err)
		},
	}
	cmd.Flags().StringVar(&only, "only", "", "fetch only reviews or events")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats OWNER/NAME",
		Short: "Show stored counts for a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := domain.ParseRepositoryPath(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			uc := a.statsUseCase()
			stats, err := uc.GetRepositoryStats(cmd.Context(), owner, name)
			if err != nil {
				return err
			}
			reviewers, err := uc.GetReviewerStats(cmd.Context(), owner, name)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"stats":     stats,
				"reviewers": reviewers,
			})
		},
	}
}

var errNotConfirmed = errors.New("refusing to delete the database without --yes")

func newCleanCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete all collected data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			if err := database.Destroy(cmd.Context(), a.cfg.Database, a.logger); err != nil {
				return err
			}
			a.logger.WithField("driver", a.cfg.Database.Driver).Info("Database removed")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

// printSummary writes whatever summary a run produced, even a partial one,
// and passes the run error through.
func printSummary(cmd *cobra.Command, summary *domain.CollectionSummary, runErr error) error {
	if summary != nil {
		if err := printJSON(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
	}
	return runErr
}

func parseNumbers(args []string) ([]int, error) {
	numbers := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidNumber, arg)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}
