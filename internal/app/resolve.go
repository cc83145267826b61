package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"apt-resolve/internal/core"
	"apt-resolve/internal/ports"
	"apt-resolve/internal/types"
)

// ResolveRequest bundles the inputs needed to run one resolve-and-plan pass.
type ResolveRequest struct {
	RepoIndexURL       string
	LocalArchivePaths  []string
	BlueprintPath      string
	InstalledStatePath string
	OutputDir          string
	Purge              bool
	Protect            []string

	// DryRun skips planning and the plan-writer entirely, returning only the
	// resolved set and its per-phase timing (SPEC_FULL.md §5 bench/dry-run
	// supplemented action).
	DryRun bool
}

// ResolveResult is what the CLI layer reports back to the user.
type ResolveResult struct {
	Resolved     []int
	InstallOrder []int
	Plan         types.PlannedActions
	Warnings     []types.ParseWarning
	Timing       core.ResolveTiming
}

// Service wires the Sources/Pool/Resolver/Sort/Planner pipeline (spec.md §1's
// component list) behind the ports the cli layer depends on. Grounded on the
// teacher's internal/app Service-wiring style: a small struct of injected
// ports, one method per CLI subcommand, logging via zerolog at each stage
// boundary.
type Service struct {
	RepoIndex      ports.RepoIndexSource
	LocalArchive   ports.LocalArchiveSource
	Blueprint      ports.BlueprintReader
	InstalledState ports.InstalledStateReader
	PlanWriter     ports.PlanWriter
}

func NewService(
	repoIndex ports.RepoIndexSource,
	localArchive ports.LocalArchiveSource,
	blueprint ports.BlueprintReader,
	installedState ports.InstalledStateReader,
	planWriter ports.PlanWriter,
) *Service {
	return &Service{
		RepoIndex:      repoIndex,
		LocalArchive:   localArchive,
		Blueprint:      blueprint,
		InstalledState: installedState,
		PlanWriter:     planWriter,
	}
}

// Resolve runs the full pipeline: populate the Pool from sources, finalize
// it, resolve the blueprint against it, sort the result into install order,
// diff against installed state, and write the plan report.
func (s *Service) Resolve(ctx context.Context, req ResolveRequest) (*ResolveResult, error) {
	pool := types.NewPool()

	var warnings []types.ParseWarning
	if req.RepoIndexURL != "" {
		log.Info().Str("url", req.RepoIndexURL).Msg("loading repo index")
		w, err := s.RepoIndex.Populate(ctx, pool, req.RepoIndexURL)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)
	}
	for _, path := range req.LocalArchivePaths {
		log.Info().Str("path", path).Msg("loading local archive")
		if err := s.LocalArchive.PopulateOne(pool, path); err != nil {
			return nil, err
		}
	}
	pool.Finalize()
	log.Debug().Int("candidates", pool.Size()).Msg("pool finalized")

	bp, err := s.Blueprint.Read(req.BlueprintPath)
	if err != nil {
		return nil, err
	}

	resolved, timing, err := core.ResolveWithTiming(pool, bp)
	if err != nil {
		return nil, err
	}
	log.Info().Int("packages", len(resolved)).Msg("resolved feasible set")

	if req.DryRun {
		return &ResolveResult{Resolved: resolved, Warnings: warnings, Timing: timing}, nil
	}

	installOrder := core.SortInstallOrder(pool, resolved)

	installed := map[string]types.PkgStatus{}
	if req.InstalledStatePath != "" {
		installed, err = s.InstalledState.Read(req.InstalledStatePath)
		if err != nil {
			return nil, err
		}
	}

	protect := make(map[string]bool, len(req.Protect))
	for _, name := range req.Protect {
		protect[name] = true
	}
	plan := core.Plan(pool, installOrder, installed, core.PlanOptions{Purge: req.Purge, Protect: protect})

	if req.OutputDir != "" {
		if err := s.PlanWriter.WritePlan(req.OutputDir, plan, pool); err != nil {
			return nil, err
		}
	}

	for _, w := range warnings {
		log.Warn().Int("paragraph", w.Ordinal).Msg(w.Message)
	}

	return &ResolveResult{
		Resolved:     resolved,
		InstallOrder: installOrder,
		Plan:         plan,
		Warnings:     warnings,
		Timing:       timing,
	}, nil
}

// BuildPool populates and finalizes a Pool from the same sources Resolve
// would use, without running the resolver — used by the search subcommand.
func (s *Service) BuildPool(ctx context.Context, repoIndexURL string, localArchivePaths []string) (*types.Pool, []types.ParseWarning, error) {
	pool := types.NewPool()
	var warnings []types.ParseWarning
	if repoIndexURL != "" {
		w, err := s.RepoIndex.Populate(ctx, pool, repoIndexURL)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
	}
	for _, path := range localArchivePaths {
		if err := s.LocalArchive.PopulateOne(pool, path); err != nil {
			return nil, nil, err
		}
	}
	pool.Finalize()
	return pool, warnings, nil
}

// Diagnose rebuilds the pool from the same sources Resolve would use and
// runs the pick.rs-derived candidate-listing explanation (core.Diagnose)
// against the blueprint, for callers that want more detail after a Resolve
// call returned Unsolvable.
func (s *Service) Diagnose(ctx context.Context, req ResolveRequest) ([]types.CandidateExplanation, error) {
	pool, _, err := s.BuildPool(ctx, req.RepoIndexURL, req.LocalArchivePaths)
	if err != nil {
		return nil, err
	}
	bp, err := s.Blueprint.Read(req.BlueprintPath)
	if err != nil {
		return nil, err
	}
	return core.Diagnose(pool, bp)
}

// Search resolves every candidate whose Provides list matches name,
// independent of the resolver (SPEC_FULL.md's supplemented virtual-package
// lookup feature — distinct from the repo's content-search tool, which
// stays out of core scope per spec.md §1 Non-goals).
func (s *Service) Search(pool *types.Pool, name string, req types.VersionRequirement) []types.PackageMeta {
	return pool.FindAllProviders(name, req)
}
