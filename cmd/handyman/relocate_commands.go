package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"handyman/internal/logging"
	"handyman/internal/progressui"
	"handyman/internal/relocate"
)

type relocateOptions struct {
	dryRun     bool
	maxSeconds float64
	plain      bool
}

func newRelocateCommands(ctx *commandContext) []*cobra.Command {
	videos := newRelocateCommand(ctx, relocate.ModeVideos,
		"videos SOURCE DEST",
		"Move short videos out of SOURCE, mirroring folders under DEST",
		"Short videos")
	screenshots := newRelocateCommand(ctx, relocate.ModeScreenshots,
		"screenshots SOURCE DEST",
		"Move images whose metadata marks them as screenshots",
		"Screenshots")
	bydate := newRelocateCommand(ctx, relocate.ModeByDate,
		"bydate SOURCE DEST",
		"Sort files and whole folders into DEST/YYYY/MM/DD",
		"Organize by date")
	return []*cobra.Command{videos, screenshots, bydate}
}

func newRelocateCommand(ctx *commandContext, mode relocate.Mode, use, short, title string) *cobra.Command {
	var opts relocateOptions

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			job := relocate.Job{
				Mode:       mode,
				Source:     args[0],
				Dest:       args[1],
				DryRun:     opts.dryRun,
				MaxSeconds: opts.maxSeconds,
			}
			return runRelocation(cmd, ctx, job, title, opts.plain)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Log planned moves without touching the filesystem")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print plain progress lines instead of the interactive view")
	if mode == relocate.ModeVideos {
		cmd.Flags().Float64Var(&opts.maxSeconds, "max-seconds", 0, "Duration threshold in seconds (default from rules.short_video_max_seconds)")
	}
	return cmd
}

func runRelocation(cmd *cobra.Command, ctx *commandContext, job relocate.Job, title string, plain bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := !plain && isTerminal(out)

	var console io.Writer
	if !interactive && ctx.verboseLogs() {
		console = cmd.ErrOrStderr()
	}
	logger, err := ctx.logger(console)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(commandContextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relocator := relocate.New(cfg, relocate.WithLogger(logger))
	var summary relocate.Summary
	if interactive {
		run, err := relocator.Start(runCtx, job)
		if err != nil {
			return err
		}
		if summary, err = progressui.Run(title, run, cmd.InOrStdin(), out); err != nil {
			return err
		}
	} else {
		if summary, err = relocator.Stream(runCtx, job, plainCallbacks(out)); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSummary(summary))
	if !summary.Completed() {
		return fmt.Errorf("run cancelled: %w", context.Canceled)
	}
	return nil
}

// plainCallbacks prints log lines as they arrive and progress in 10% steps.
func plainCallbacks(out io.Writer) relocate.Callbacks {
	sampler := logging.NewProgressSampler(10)
	return relocate.Callbacks{
		OnProgress: func(current, total, percent int, label string) {
			if total == 0 || !sampler.ShouldLog(float64(percent), "run") {
				return
			}
			fmt.Fprintf(out, "[%3d%%] %d/%d %s\n", percent, current, total, label)
		},
		OnLog: func(message string) {
			fmt.Fprintln(out, message)
		},
	}
}

func renderSummary(s relocate.Summary) string {
	rows := [][]string{
		{"Run", s.RunID},
		{"Mode", string(s.Mode)},
		{"Dry run", yesNo(s.DryRun)},
		{"Found", strconv.Itoa(s.Total)},
		{"Processed", strconv.Itoa(s.Processed)},
		{"Moved", strconv.Itoa(s.Moved)},
		{"Skipped", strconv.Itoa(s.Skipped)},
		{"Failed", strconv.Itoa(s.Failed)},
		{"Cancelled", yesNo(s.Cancelled)},
		{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
	}
	return renderTable("Summary", []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func commandContextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
