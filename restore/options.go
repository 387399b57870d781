package restore

// Options configures a Restorer run.
type Options struct {
	// Sources lists the package sources to query, in priority order.
	Sources []string

	// TargetFrameworks lists the frameworks to build and resolve a graph
	// for. Each one runs as an independent, concurrent resolve sharing
	// the Restorer's GraphCache.
	TargetFrameworks []string

	// AllowUnresolved is threaded through to every DependencyWalker.Walk
	// call: when true, a dependency no source can satisfy becomes a
	// leaf node with diagnostics instead of failing the whole restore.
	AllowUnresolved bool

	// Patience overrides resolver.ResolveOptions.Patience for every
	// graph this Restorer resolves. Zero uses the resolver's default.
	Patience int
}
