package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"apt-resolve/internal/adapters"
	"apt-resolve/internal/app"
)

func newResolveCommand() *cobra.Command {
	var repoIndexURL string
	var localArchives []string
	var blueprintPath string
	var installedStatePath string
	var outputDir string
	var purge bool
	var protect []string
	var dryRun bool
	var explain bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a blueprint against a repo index and local archives, producing an install plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := app.NewService(
				adapters.NewRepoIndexSourceAdapter(),
				adapters.NewLocalArchiveSourceAdapter(),
				adapters.NewBlueprintFileAdapter(),
				adapters.NewInstalledStateFileAdapter(),
				adapters.NewPlannerReportFileAdapter(),
			)

			req := app.ResolveRequest{
				RepoIndexURL:       repoIndexURL,
				LocalArchivePaths:  localArchives,
				BlueprintPath:      blueprintPath,
				InstalledStatePath: installedStatePath,
				OutputDir:          outputDir,
				Purge:              purge,
				Protect:            protect,
				DryRun:             dryRun,
			}

			result, err := svc.Resolve(cmd.Context(), req)
			if err != nil {
				if explain {
					if explanations, diagErr := svc.Diagnose(cmd.Context(), req); diagErr == nil && len(explanations) > 0 {
						fmt.Fprintln(cmd.ErrOrStderr(), "candidates implicated in the conflict:")
						for _, e := range explanations {
							fmt.Fprintf(cmd.ErrOrStderr(), "  %s %s: %s\n", e.Name, e.Version, e.Reason)
						}
					}
				}
				return err
			}

			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "resolved %d packages\nseed=%s initial_solve=%s upgrade=%s reduce=%s final_upgrade=%s\n",
					len(result.Resolved), result.Timing.Seed, result.Timing.InitialSolve,
					result.Timing.Upgrade, result.Timing.Reduce, result.Timing.FinalUpgrade)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "resolved %d packages, %d installs, %d removes, %d purges\n",
				len(result.Resolved), len(result.Plan.Install), len(result.Plan.Remove), len(result.Plan.Purge))
			log.Info().Msg("resolve complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&repoIndexURL, "repo-index", "", "Local path of the repository index file (also the base joined onto each Filename)")
	cmd.Flags().StringSliceVar(&localArchives, "local-archive", nil, "Local .deb archive path (repeatable)")
	cmd.Flags().StringVar(&blueprintPath, "blueprint", "", "Blueprint YAML file")
	cmd.Flags().StringVar(&installedStatePath, "installed-state", "", "Installed-state YAML file")
	cmd.Flags().StringVar(&outputDir, "output", "./plan", "Directory to write the plan report to")
	cmd.Flags().BoolVar(&purge, "purge", false, "Purge rather than remove packages absent from the resolved set")
	cmd.Flags().StringSliceVar(&protect, "protect", nil, "Package name to never remove or purge (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and report per-phase timing only, skipping planning")
	cmd.Flags().BoolVar(&explain, "explain", false, "On an unsolvable blueprint, print the candidate versions implicated in the conflict")
	_ = cmd.MarkFlagRequired("blueprint")

	return cmd
}
