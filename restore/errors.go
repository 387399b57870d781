package restore

import (
	"fmt"
	"strings"

	"github.com/willibrandon/depresolve/core/resolver"
)

// NuGetError is a restore-time error tied to a specific package/project,
// carrying the same NU1xxx-style code a restore pipeline's own
// diagnostics would report.
type NuGetError struct {
	Code            string
	Message         string
	ProjectPath     string
	TargetFramework string
	Sources         []string
}

func (e *NuGetError) Error() string {
	return e.FormatError(false)
}

// FormatError renders the error the way a console restore report would,
// optionally in bright red for a TTY (colorize) or plain for piped
// output.
func (e *NuGetError) FormatError(colorize bool) string {
	sourcesStr := ""
	if len(e.Sources) > 0 {
		sourcesStr = " in source(s): " + strings.Join(e.Sources, ", ")
	}
	if colorize {
		const (
			red   = "\033[1;31m"
			reset = "\033[0m"
		)
		return fmt.Sprintf("    %s : %serror %s%s: %s%s", e.ProjectPath, red, e.Code, reset, e.Message, sourcesStr)
	}
	return fmt.Sprintf("    %s : error %s: %s%s", e.ProjectPath, e.Code, e.Message, sourcesStr)
}

// unresolvedErrors converts the walker's diagnostics for one graph into
// NuGetErrors tied to projectPath.
func unresolvedErrors(projectPath string, unresolved []resolver.UnresolvedPackage) []*NuGetError {
	errs := make([]*NuGetError, 0, len(unresolved))
	for _, u := range unresolved {
		errs = append(errs, &NuGetError{
			Code:            u.ErrorCode,
			Message:         u.Message,
			ProjectPath:     projectPath,
			TargetFramework: u.TargetFramework,
			Sources:         u.Sources,
		})
	}
	return errs
}
