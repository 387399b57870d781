// Package resolver implements the dependency graph conflict resolver: it
// walks a pre-expanded in-memory graph.Graph and decides, for every node,
// whether it is Accepted, Rejected, or flagged as a cycle, downgrade, or
// version conflict.
package resolver

import "fmt"

// LibraryIncludeFlags specifies what should be included from a dependency,
// e.g. for PrivateAssets/ExcludeAssets-style asset suppression.
type LibraryIncludeFlags int

const (
	LibraryIncludeFlagsNone            LibraryIncludeFlags = 0
	LibraryIncludeFlagsRuntime         LibraryIncludeFlags = 1 << 0
	LibraryIncludeFlagsCompile         LibraryIncludeFlags = 1 << 1
	LibraryIncludeFlagsBuild           LibraryIncludeFlags = 1 << 2
	LibraryIncludeFlagsContentFiles    LibraryIncludeFlags = 1 << 3
	LibraryIncludeFlagsNative          LibraryIncludeFlags = 1 << 4
	LibraryIncludeFlagsAnalyzers       LibraryIncludeFlags = 1 << 5
	LibraryIncludeFlagsBuildTransitive LibraryIncludeFlags = 1 << 6
	LibraryIncludeFlagsAll             LibraryIncludeFlags = 0x7F
)

// PackageDependency represents a single unexpanded dependency request:
// the input the walker consumes to build graph.Node edges, before a
// concrete candidate has been chosen.
type PackageDependency struct {
	ID              string
	VersionRange    string
	TargetFramework string // empty = all frameworks

	IncludeType LibraryIncludeFlags
	ExcludeType LibraryIncludeFlags

	// SuppressParent == LibraryIncludeFlagsAll means the parent is fully
	// suppressed (PrivateAssets="All"): its subtree is never walked.
	SuppressParent LibraryIncludeFlags

	// CentralTransitive marks a dependency pinned by the root via
	// centralized package-version management rather than requested
	// directly by any package in the graph.
	CentralTransitive bool
}

// DependencyGroup scopes a set of dependencies to a target framework.
type DependencyGroup struct {
	TargetFramework string
	Dependencies    []PackageDependency
}

// PackageDependencyInfo is the complete metadata the walker resolved for
// one candidate: its own dependencies, optionally split by framework.
type PackageDependencyInfo struct {
	ID           string
	Version      string
	Dependencies []PackageDependency

	DependencyGroups []DependencyGroup

	// IsUnresolved marks a candidate that could not be found by any
	// configured source.
	IsUnresolved bool
}

// Key returns a stable identity string for this candidate.
func (p *PackageDependencyInfo) Key() string {
	return fmt.Sprintf("%s|%s", p.ID, p.Version)
}

func (p *PackageDependencyInfo) String() string {
	return fmt.Sprintf("%s %s", p.ID, p.Version)
}

// NuGetErrorCode is a standard NuGet restore error code, kept so
// unresolved-package diagnostics can be surfaced the same way a restore
// pipeline's error reporting expects.
type NuGetErrorCode string

const (
	// NU1101 - no versions of the package exist on any configured source.
	NU1101 NuGetErrorCode = "NU1101"
	// NU1102 - the package exists but no version matches the requested range.
	NU1102 NuGetErrorCode = "NU1102"
	// NU1103 - only prerelease versions are available when a stable one was requested.
	NU1103 NuGetErrorCode = "NU1103"
)

// UnresolvedPackage describes a dependency the walker could not satisfy
// from any source.
type UnresolvedPackage struct {
	ID                string
	VersionRange      string
	TargetFramework   string
	ErrorCode         string
	Message           string
	Sources           []string
	AvailableVersions []string
	NearestVersion    string
}
