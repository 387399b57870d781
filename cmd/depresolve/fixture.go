package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/willibrandon/depresolve/core/resolver"
)

// fixture is the on-disk shape a "resolve" run loads: a flat package
// catalog plus the root request, the same data core/resolver's own
// tests hand-build as Go literals — serialized to JSON instead so the
// CLI has something to load without a real package source.
type fixture struct {
	Root struct {
		ID              string `json:"id"`
		VersionRange    string `json:"versionRange"`
		TargetFramework string `json:"targetFramework"`
	} `json:"root"`
	Packages []fixturePackage `json:"packages"`
}

type fixturePackage struct {
	ID           string                      `json:"id"`
	Version      string                      `json:"version"`
	Dependencies []fixtureDependency         `json:"dependencies"`
	Groups       map[string][]fixtureDependency `json:"dependencyGroups"`
}

type fixtureDependency struct {
	ID             string `json:"id"`
	VersionRange   string `json:"versionRange"`
	SuppressAll    bool   `json:"suppressAll"`
	CentralPin     bool   `json:"centralTransitive"`
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// fixtureClient answers resolver.PackageMetadataClient from a fixture's
// flat package catalog, ignoring the requested source (a fixture has
// exactly one, implicit, catalog).
type fixtureClient struct {
	packages map[string][]*resolver.PackageDependencyInfo
}

func newFixtureClient(f *fixture) *fixtureClient {
	c := &fixtureClient{packages: make(map[string][]*resolver.PackageDependencyInfo)}
	for _, pkg := range f.Packages {
		info := &resolver.PackageDependencyInfo{
			ID:           pkg.ID,
			Version:      pkg.Version,
			Dependencies: toDependencies(pkg.Dependencies),
		}
		for framework, deps := range pkg.Groups {
			info.DependencyGroups = append(info.DependencyGroups, resolver.DependencyGroup{
				TargetFramework: framework,
				Dependencies:    toDependencies(deps),
			})
		}
		c.packages[pkg.ID] = append(c.packages[pkg.ID], info)
	}
	return c
}

func toDependencies(deps []fixtureDependency) []resolver.PackageDependency {
	result := make([]resolver.PackageDependency, 0, len(deps))
	for _, d := range deps {
		dep := resolver.PackageDependency{ID: d.ID, VersionRange: d.VersionRange, CentralTransitive: d.CentralPin}
		if d.SuppressAll {
			dep.SuppressParent = resolver.LibraryIncludeFlagsAll
		}
		result = append(result, dep)
	}
	return result
}

func (c *fixtureClient) GetPackageMetadata(ctx context.Context, source, packageID string) ([]*resolver.PackageDependencyInfo, error) {
	return c.packages[packageID], nil
}
