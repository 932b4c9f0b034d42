package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"handyman/internal/preflight"
	"handyman/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [SOURCE DEST]",
		Short: "Report external dependencies and, optionally, directory access",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("check takes no arguments or SOURCE DEST, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var missing []string

			var depRows [][]string
			for _, status := range preflight.CheckSystemDeps(cfg) {
				state := "ok"
				detail := status.Command
				if !status.Available {
					state = "missing"
					detail = status.Detail
					if !status.Optional {
						missing = append(missing, status.Name)
					}
				}
				depRows = append(depRows, []string{status.Name, state, detail, status.Description})
			}
			fmt.Fprintln(out, renderTable("Dependencies", []string{"Name", "Status", "Detail", "Purpose"}, depRows, nil))

			var dirErr error
			if len(args) == 2 {
				results := preflight.RunAll(args[0], args[1])
				var dirRows [][]string
				for _, result := range results {
					state := "ok"
					if !result.Passed {
						state = "failed"
					}
					dirRows = append(dirRows, []string{result.Name, state, result.Detail})
				}
				fmt.Fprintln(out, renderTable("Directories", []string{"Check", "Status", "Detail"}, dirRows, nil))
				dirErr = preflight.Err(results)
			}

			if len(missing) > 0 {
				return services.Wrap(services.ErrExternalTool, "check", "dependencies", strings.Join(missing, ", ")+" not available", dirErr)
			}
			return dirErr
		},
	}
}
