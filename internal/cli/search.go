package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"apt-resolve/internal/adapters"
	"apt-resolve/internal/app"
	"apt-resolve/internal/types"
)

func newSearchCommand() *cobra.Command {
	var repoIndexURL string
	var localArchives []string
	var requirement string
	var provides bool

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "List candidates matching a name, or providers of a virtual package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			req := types.VersionRequirement{}
			if requirement != "" {
				parsed, err := types.ParseVersionRequirement(requirement)
				if err != nil {
					return err
				}
				req = parsed
			}

			svc := app.NewService(
				adapters.NewRepoIndexSourceAdapter(),
				adapters.NewLocalArchiveSourceAdapter(),
				adapters.NewBlueprintFileAdapter(),
				adapters.NewInstalledStateFileAdapter(),
				adapters.NewPlannerReportFileAdapter(),
			)

			pool, _, err := svc.BuildPool(cmd.Context(), repoIndexURL, localArchives)
			if err != nil {
				return err
			}

			var matches []types.PackageMeta
			if provides {
				matches = svc.Search(pool, name, req)
			} else {
				for _, id := range pool.ByName(name) {
					meta, ok := pool.Get(id)
					if ok && req.Contains(meta.Version) {
						matches = append(matches, meta)
					}
				}
			}

			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", m.Name, m.Version.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoIndexURL, "repo-index", "", "Local path of the repository index file (also the base joined onto each Filename)")
	cmd.Flags().StringSliceVar(&localArchives, "local-archive", nil, "Local .deb archive path (repeatable)")
	cmd.Flags().StringVar(&requirement, "requirement", "any", "Version requirement to filter matches")
	cmd.Flags().BoolVar(&provides, "provides", false, "Search by virtual package (Provides) rather than real name")

	return cmd
}
