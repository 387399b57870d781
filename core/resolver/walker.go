package resolver

import (
	"context"
	"fmt"

	"github.com/willibrandon/depresolve/graph"
	"github.com/willibrandon/depresolve/version"
)

// DependencyWalker expands an unresolved dependency request into a
// graph.Graph: it fetches each candidate's metadata and recurses into
// its own dependencies, using manual stack-based traversal so a deep
// graph never costs a goroutine per node. The walker only builds the raw
// DAG; classifying a node as Accepted, Rejected, Cycle, or a downgrade is
// the Resolver's job, not the walker's.
type DependencyWalker struct {
	client            PackageMetadataClient
	sources           []string
	cache             *WalkerCache
	targetFramework   string
	frameworkSelector *FrameworkSelector
}

// PackageMetadataClient fetches every known version of packageID from a
// single source.
type PackageMetadataClient interface {
	GetPackageMetadata(ctx context.Context, source string, packageID string) ([]*PackageDependencyInfo, error)
}

// NewDependencyWalker creates a walker that fetches from sources in order,
// preferring the first source that has a satisfying version.
func NewDependencyWalker(client PackageMetadataClient, sources []string, targetFramework string) *DependencyWalker {
	return &DependencyWalker{
		client:            client,
		sources:           sources,
		cache:             NewWalkerCache(),
		targetFramework:   targetFramework,
		frameworkSelector: NewFrameworkSelector(),
	}
}

// Walk builds the complete dependency graph rooted at packageID. When
// allowUnresolved is false, any dependency (including the root) that no
// configured source can satisfy fails the walk outright. When true, such
// a dependency becomes a leaf node with a nil Item instead (graph.Item's
// own convention for "unresolved"), its subtree is not descended into,
// and a diagnostic is appended to the returned []UnresolvedPackage (one
// of NU1101/NU1102/NU1103, matching the shape a restore pipeline's own
// error reporting expects).
func (w *DependencyWalker) Walk(ctx context.Context, packageID, versionRange, targetFramework string, allowUnresolved bool) (*graph.Graph, []UnresolvedPackage, error) {
	rootDep := PackageDependency{ID: packageID, VersionRange: versionRange}
	rootInfo, err := w.fetchDependency(ctx, rootDep, targetFramework)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch root package: %w", err)
	}

	g := graph.New()
	var unresolved []UnresolvedPackage

	if rootInfo == nil {
		if !allowUnresolved {
			return nil, nil, fmt.Errorf("package not found: %s %s", packageID, versionRange)
		}
		root := g.NewNode(graph.Key{Name: packageID})
		g.SetRoot(root)
		unresolved = append(unresolved, w.diagnoseUnresolved(ctx, rootDep, targetFramework))
		return g, unresolved, nil
	}

	rootVersion, err := version.Parse(rootInfo.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("parse version %q for %s: %w", rootInfo.Version, rootInfo.ID, err)
	}

	root := g.NewNode(graph.Key{Name: rootInfo.ID})
	root.Item = &graph.Item{Name: rootInfo.ID, Version: rootVersion, Kind: graph.KindPackage}
	g.SetRoot(root)

	if err := w.walkStackBased(ctx, g, root, rootInfo, targetFramework, allowUnresolved, &unresolved); err != nil {
		return nil, nil, err
	}
	return g, unresolved, nil
}

// walkerStackState is one frame of the manual traversal stack: a node
// together with the dependency metadata the fetch for it returned (the
// walker's own bookkeeping, not part of the resulting graph.Node).
type walkerStackState struct {
	node  *graph.Node
	info  *PackageDependencyInfo
	tasks []*dependencyFetchTask
	index int
}

type dependencyFetchTask struct {
	dependency PackageDependency
	resultChan chan *dependencyFetchResult
}

type dependencyFetchResult struct {
	info *PackageDependencyInfo
	err  error
}

// walkStackBased performs the manual stack-based graph traversal,
// starting every dependency's fetch concurrently before processing
// results one at a time.
func (w *DependencyWalker) walkStackBased(
	ctx context.Context,
	g *graph.Graph,
	root *graph.Node,
	rootInfo *PackageDependencyInfo,
	targetFramework string,
	allowUnresolved bool,
	unresolved *[]UnresolvedPackage,
) error {
	stack := []*walkerStackState{{node: root, info: rootInfo}}

	for len(stack) > 0 {
		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if state.index == 0 {
			for _, dep := range w.getDependenciesForFramework(state.info, targetFramework) {
				if dep.SuppressParent == LibraryIncludeFlagsAll {
					continue
				}
				if hasAncestorNamed(state.node, dep.ID) {
					// Structural cycle: add a placeholder leaf and stop
					// descending. The resolver's fixpoint loop is what
					// classifies this as a Cycle disposition.
					cycleNode := g.NewNode(graph.Key{Name: dep.ID})
					g.AddEdge(state.node, cycleNode)
					continue
				}

				task := &dependencyFetchTask{dependency: dep, resultChan: make(chan *dependencyFetchResult, 1)}
				go func(t *dependencyFetchTask) {
					info, err := w.fetchDependency(ctx, t.dependency, targetFramework)
					t.resultChan <- &dependencyFetchResult{info: info, err: err}
				}(task)
				state.tasks = append(state.tasks, task)
			}
		}

		if state.index >= len(state.tasks) {
			continue
		}

		task := state.tasks[state.index]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result := <-task.resultChan:
			if result.err != nil {
				return result.err
			}

			state.index++
			stack = append(stack, state)

			if result.info == nil {
				dep := state.tasks[state.index-1].dependency
				if !allowUnresolved {
					return fmt.Errorf("package not found: %s %s", dep.ID, dep.VersionRange)
				}
				child := g.NewNode(graph.Key{Name: dep.ID})
				g.AddEdge(state.node, child)
				*unresolved = append(*unresolved, w.diagnoseUnresolved(ctx, dep, targetFramework))
				continue
			}

			childVersion, err := version.Parse(result.info.Version)
			if err != nil {
				return fmt.Errorf("parse version %q for %s: %w", result.info.Version, result.info.ID, err)
			}
			child := g.NewNode(graph.Key{Name: result.info.ID})
			child.Item = &graph.Item{Name: result.info.ID, Version: childVersion, Kind: graph.KindPackage}
			g.AddEdge(state.node, child)

			stack = append(stack, &walkerStackState{node: child, info: result.info})
		}
	}

	return nil
}

// hasAncestorNamed reports whether name already appears among n's own
// name or any of its ancestors, following every Outer parent.
func hasAncestorNamed(n *graph.Node, name string) bool {
	folded := graph.Key{Name: name}.FoldedName()
	visited := make(map[*graph.Node]bool)
	var walk func(nodes []*graph.Node) bool
	walk = func(nodes []*graph.Node) bool {
		for _, p := range nodes {
			if visited[p] {
				continue
			}
			visited[p] = true
			if p.Key.FoldedName() == folded {
				return true
			}
			if walk(p.Outer) {
				return true
			}
		}
		return false
	}
	if n.Key.FoldedName() == folded {
		return true
	}
	return walk(n.Outer)
}

// getDependenciesForFramework returns dependencies applicable to targetFramework.
func (w *DependencyWalker) getDependenciesForFramework(
	info *PackageDependencyInfo,
	targetFramework string,
) []PackageDependency {
	if len(info.DependencyGroups) > 0 {
		return w.frameworkSelector.SelectDependencies(info.DependencyGroups, targetFramework)
	}
	return info.Dependencies
}

// fetchDependency resolves dep to the highest available version
// satisfying its range, trying each source in order and caching results
// (and in-flight requests) by (id, range, framework).
func (w *DependencyWalker) fetchDependency(
	ctx context.Context,
	dep PackageDependency,
	targetFramework string,
) (*PackageDependencyInfo, error) {
	cacheKey := fmt.Sprintf("%s|%s|%s", dep.ID, dep.VersionRange, targetFramework)
	return w.cache.GetOrFetch(ctx, cacheKey, func(ctx context.Context) (*PackageDependencyInfo, error) {
		rng, err := version.ParseRange(dep.VersionRange)
		if err != nil {
			return nil, fmt.Errorf("parse version range %q: %w", dep.VersionRange, err)
		}

		for _, source := range w.sources {
			packages, err := w.client.GetPackageMetadata(ctx, source, dep.ID)
			if err != nil {
				continue
			}

			var best *PackageDependencyInfo
			var bestVersion *version.Version
			for _, pkg := range packages {
				pkgVersion, err := version.Parse(pkg.Version)
				if err != nil {
					continue
				}
				if !rng.Satisfies(pkgVersion) {
					continue
				}
				if best == nil || pkgVersion.GreaterThan(bestVersion) {
					best = pkg
					bestVersion = pkgVersion
				}
			}
			if best != nil {
				return best, nil
			}
		}

		return nil, nil
	})
}

// diagnoseUnresolved re-queries every source for dep to classify why it
// could not be satisfied, producing the same NU1101/NU1102/NU1103
// distinction a restore pipeline's own diagnostics would. It is only
// called on the (rare) unresolved path, so re-fetching instead of
// threading this through fetchDependency's cached result keeps the hot
// path free of bookkeeping it doesn't need.
func (w *DependencyWalker) diagnoseUnresolved(ctx context.Context, dep PackageDependency, targetFramework string) UnresolvedPackage {
	result := UnresolvedPackage{
		ID:              dep.ID,
		VersionRange:    dep.VersionRange,
		TargetFramework: targetFramework,
		Sources:         w.sources,
	}

	var sawStable, sawPrerelease bool
	var nearest *version.Version
	for _, source := range w.sources {
		packages, err := w.client.GetPackageMetadata(ctx, source, dep.ID)
		if err != nil {
			continue
		}
		for _, pkg := range packages {
			pkgVersion, err := version.Parse(pkg.Version)
			if err != nil {
				continue
			}
			result.AvailableVersions = append(result.AvailableVersions, pkg.Version)
			if pkgVersion.IsPrerelease() {
				sawPrerelease = true
			} else {
				sawStable = true
			}
			if nearest == nil || pkgVersion.GreaterThan(nearest) {
				nearest = pkgVersion
			}
		}
	}

	switch {
	case len(result.AvailableVersions) == 0:
		result.ErrorCode = string(NU1101)
		result.Message = fmt.Sprintf("unable to find package %s. No versions exist on any configured source.", dep.ID)
	case sawPrerelease && !sawStable:
		result.ErrorCode = string(NU1103)
		result.Message = fmt.Sprintf("unable to find a stable version of %s that satisfies %s; only prerelease versions are available.", dep.ID, dep.VersionRange)
	default:
		result.ErrorCode = string(NU1102)
		result.Message = fmt.Sprintf("unable to find a version of %s that satisfies %s.", dep.ID, dep.VersionRange)
	}
	if nearest != nil {
		result.NearestVersion = nearest.String()
	}
	return result
}
