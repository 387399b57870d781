// Package graph implements the dependency-graph node model that the
// resolver operates over: an arena of nodes linked by parent ("outer")
// and child ("inner") pointers, forming a DAG rooted at a project. A
// node may have more than one parent — a package reached through
// several paths keeps one edge per path, not one node per path.
package graph

import "fmt"

// LibraryKind classifies what a resolved item actually is. Only Package
// items are subject to version-range satisfaction checks; Project and
// ExternalProject items bypass them because at most one instance of a
// given project can appear in a graph regardless of what range a
// dependent requested.
type LibraryKind int

const (
	KindUnknown LibraryKind = iota
	KindProject
	KindPackage
	KindExternalProject
	KindReference
	KindAssembly
)

func (k LibraryKind) String() string {
	switch k {
	case KindProject:
		return "Project"
	case KindPackage:
		return "Package"
	case KindExternalProject:
		return "ExternalProject"
	case KindReference:
		return "Reference"
	case KindAssembly:
		return "Assembly"
	default:
		return "Unknown"
	}
}

// BypassesRangeCheck reports whether an item of this kind is exempt from
// version-range satisfaction checks when accepted.
func (k LibraryKind) BypassesRangeCheck() bool {
	return k == KindProject || k == KindExternalProject
}

// TypeConstraint is a bitmask narrowing which library kinds a dependency
// is willing to resolve against.
type TypeConstraint int

const (
	ConstraintNone           TypeConstraint = 0
	ConstraintPackage        TypeConstraint = 1 << 0
	ConstraintProject        TypeConstraint = 1 << 1
	ConstraintExternalProject TypeConstraint = 1 << 2
	ConstraintReference      TypeConstraint = 1 << 3
	ConstraintAssembly       TypeConstraint = 1 << 4
	ConstraintAll            = ConstraintPackage | ConstraintProject | ConstraintExternalProject | ConstraintReference | ConstraintAssembly
)

// Intersects reports whether the two constraint masks share any bit, or
// whether either is ConstraintNone (an unconstrained dependency intersects
// everything).
func (c TypeConstraint) Intersects(o TypeConstraint) bool {
	if c == ConstraintNone || o == ConstraintNone {
		return true
	}
	return c&o != 0
}
