// Package restore orchestrates one or more core/resolver.Resolver runs
// for a project: one graph per target framework, built by a
// core/resolver.DependencyWalker and resolved independently, run
// concurrently via golang.org/x/sync/errgroup and published into a
// shared GraphCache so overlapping restores never resolve the same
// (project, framework) graph twice.
package restore

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/willibrandon/depresolve/core/resolver"
	"github.com/willibrandon/depresolve/observability"
)

// Restorer runs a restore for a single project: one resolver.Analyze
// pass per Options.TargetFrameworks entry.
type Restorer struct {
	opts   Options
	walker *resolver.DependencyWalker
	cache  *GraphCache
	logger observability.Logger
}

// NewRestorer creates a Restorer. walker builds the unresolved graph for
// each target framework; logger may be nil (a no-op logger is used).
func NewRestorer(opts Options, walker *resolver.DependencyWalker, logger observability.Logger) *Restorer {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Restorer{
		opts:   opts,
		walker: walker,
		cache:  NewGraphCache(logger),
		logger: logger,
	}
}

// GraphResult is one target framework's resolve outcome.
type GraphResult struct {
	TargetFramework string
	Analysis        *resolver.AnalyzeResult
	Errors          []*NuGetError
}

// Result is the outcome of restoring every target framework.
type Result struct {
	Graphs  []GraphResult
	Success bool
}

// Restore builds and resolves a graph for every configured target
// framework concurrently, rooted at packageID/versionRange (the
// project's own top-level dependency, in lieu of a full project-file
// reader, which is out of scope here). A framework whose resolve itself
// errors (an invalid graph, or exceeding the resolver's patience) fails
// the whole restore; an unresolved leaf package does not — it surfaces
// as a NuGetError on that framework's GraphResult instead.
func (r *Restorer) Restore(ctx context.Context, projectPath, packageID, versionRange string) (*Result, error) {
	frameworks := r.opts.TargetFrameworks
	if len(frameworks) == 0 {
		return nil, fmt.Errorf("restore: no target frameworks configured")
	}

	results := make([]GraphResult, len(frameworks))

	g, gctx := errgroup.WithContext(ctx)
	for i, framework := range frameworks {
		i, framework := i, framework
		g.Go(func() error {
			analysis, unresolved, err := r.cache.GetOrResolve(gctx, projectPath, framework, func(ctx context.Context) (*resolver.AnalyzeResult, []resolver.UnresolvedPackage, error) {
				return r.resolveOne(ctx, packageID, versionRange, framework)
			})
			if err != nil {
				return fmt.Errorf("restore %s for %s: %w", framework, projectPath, err)
			}
			results[i] = GraphResult{
				TargetFramework: framework,
				Analysis:        analysis,
				Errors:          unresolvedErrors(projectPath, unresolved),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	success := true
	for _, res := range results {
		if len(res.Errors) > 0 {
			success = false
		}
	}
	return &Result{Graphs: results, Success: success}, nil
}

func (r *Restorer) resolveOne(ctx context.Context, packageID, versionRange, framework string) (*resolver.AnalyzeResult, []resolver.UnresolvedPackage, error) {
	g, unresolved, err := r.walker.Walk(ctx, packageID, versionRange, framework, r.opts.AllowUnresolved)
	if err != nil {
		return nil, nil, err
	}

	res := resolver.NewResolver(resolver.ResolveOptions{
		Patience:   r.opts.Patience,
		Logger:     r.logger,
		GraphLabel: framework,
	})
	analysis, err := res.Analyze(g)
	if err != nil {
		return nil, nil, err
	}
	return analysis, unresolved, nil
}
