package resolver

import "fmt"

// CycleAnalyzer renders the Cycle reports an Analyze run produces into
// human-readable descriptions, the way a restore pipeline's console
// output surfaces a circular dependency to a user.
type CycleAnalyzer struct{}

// NewCycleAnalyzer creates a cycle analyzer.
func NewCycleAnalyzer() *CycleAnalyzer {
	return &CycleAnalyzer{}
}

// Describe renders every cycle in result as a one-line description, in
// the order Analyze reported them.
func (ca *CycleAnalyzer) Describe(result *AnalyzeResult) []string {
	descriptions := make([]string, 0, len(result.Cycles))
	for _, c := range result.Cycles {
		descriptions = append(descriptions, ca.formatCycleDescription(c))
	}
	return descriptions
}

// GroupByName buckets cycle reports by the package name that closes the
// cycle, so a report touching the same package through several paths
// can be presented together instead of once per path.
func (ca *CycleAnalyzer) GroupByName(result *AnalyzeResult) map[string][]CycleReport {
	groups := make(map[string][]CycleReport)
	for _, c := range result.Cycles {
		name := c.Node.Key.FoldedName()
		groups[name] = append(groups[name], c)
	}
	return groups
}

func (ca *CycleAnalyzer) formatCycleDescription(c CycleReport) string {
	if c.Path == "" {
		return fmt.Sprintf("Circular dependency on %s", c.Node.Key.Name)
	}
	return fmt.Sprintf("Circular dependency: %s", c.Path)
}
