package preflight

import (
	"fmt"
	"strings"

	"handyman/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for a relocation from source to dest.
func RunAll(source, dest string) []Result {
	return []Result{
		CheckSourceDirectory(source),
		CheckDestinationDirectory(dest),
	}
}

// Err folds failed results into a single validation error, or nil when every
// check passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrValidation, "preflight", "check directories", strings.Join(failed, "; "), nil)
}
