package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Requirement defines an external binary handyman relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries reports which requirements resolve to an executable. Bare
// names are searched on PATH; paths must point at an executable file.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{
			Name:        req.Name,
			Command:     strings.TrimSpace(req.Command),
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		status.Available, status.Detail = probeCommand(status.Command)
		results = append(results, status)
	}
	return results
}

func probeCommand(command string) (bool, string) {
	if command == "" {
		return false, "command not configured"
	}
	if strings.ContainsRune(command, filepath.Separator) {
		info, err := os.Stat(command)
		if err != nil {
			return false, fmt.Sprintf("binary %q not found", command)
		}
		if !isExecutable(info) {
			return false, fmt.Sprintf("%q is not executable", command)
		}
		return true, ""
	}
	if _, err := exec.LookPath(command); err != nil {
		return false, fmt.Sprintf("binary %q not found", command)
	}
	return true, ""
}
