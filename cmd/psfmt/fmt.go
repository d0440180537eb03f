package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"psfmt/internal/diagfmt"
	"psfmt/internal/driver"
	"psfmt/internal/observ"
	"psfmt/internal/pipeline"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [path...]",
	Short: "Format PowerShell source files",
	Long: `Format rewrites .ps1, .psm1 and .psd1 files in place. Directories are walked
recursively; "-" formats standard input to standard output. Settings come from the
nearest .psfmt.toml or .psfmt.yaml, overlaid with the option flags.`,
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "check if files are properly formatted")
	fmtCmd.Flags().Bool("diff", false, "print a unified diff instead of rewriting files")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	fmtCmd.Flags().StringSlice("exclude", nil, "glob patterns to skip when walking directories")
	fmtCmd.Flags().Bool("no-cache", false, "do not read or write the formatting cache")
	fmtCmd.Flags().Bool("clear-cache", false, "drop the formatting cache before running")
	fmtCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	addOptionFlags(fmtCmd.Flags())
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	exclude, err := cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	if writeToStdout && (check || showDiff) {
		return fmt.Errorf("fmt: --stdout cannot be used with --check or --diff")
	}
	if (writeToStdout || showDiff) && outputFormat != "text" {
		return fmt.Errorf("fmt: --stdout and --diff are only supported with text output")
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	opts, err := optionsFromFlags(cmd.Flags())
	if err != nil {
		return err
	}
	fopts := driver.FormatOptions{
		Check:      check,
		Diff:       showDiff,
		Stdout:     writeToStdout,
		Options:    opts,
		ConfigPath: configPath,
		Exclude:    exclude,
		Jobs:       jobs,
	}

	if len(args) == 0 {
		args = []string{"."}
	}
	if len(args) == 1 && args[0] == "-" {
		return formatStdin(cmd, fopts)
	}

	log := zerolog.Ctx(cmd.Context())
	if !noCache {
		cache, err := driver.OpenDiskCache("psfmt")
		if err != nil {
			log.Warn().Err(err).Msg("cache disabled")
		} else {
			if clearCache {
				if err := cache.DropAll(); err != nil {
					return fmt.Errorf("fmt: clear cache: %w", err)
				}
			}
			fopts.Cache = cache
			log.Debug().Str("dir", cache.Dir()).Msg("cache opened")
		}
	}

	timer := observ.NewTimer()
	timings := &pipeline.Timings{}
	fopts.Timings = timings

	phase := timer.Begin("format")
	var results []driver.FormatResult
	useUI := !quiet && !writeToStdout && !showDiff && outputFormat == "text" && shouldUseTUI(mode)
	if useUI {
		results, err = runFormatWithUI(cmd.Context(), "fmt", args, fopts)
	} else {
		results, err = driver.FormatPaths(cmd.Context(), args, fopts)
	}
	timer.End(phase, fmt.Sprintf("%d files", len(results)))
	if err != nil {
		if errors.Is(err, driver.ErrNoSourceFiles) {
			return fmt.Errorf("fmt: no PowerShell files found in %v", args)
		}
		return err
	}

	out := cmd.OutOrStdout()
	var hasErrors, hasChanges bool
	switch {
	case outputFormat == "json":
		if err := renderFmtJSON(out, results, check); err != nil {
			return err
		}
		for _, res := range results {
			hasErrors = hasErrors || res.Err != nil
			hasChanges = hasChanges || res.Changed
		}
	case writeToStdout:
		renderFmtStdout(out, cmd.ErrOrStderr(), results, &hasErrors)
	case showDiff:
		renderFmtDiff(out, cmd.ErrOrStderr(), results, &hasErrors, &hasChanges)
	default:
		renderFmtText(out, cmd.ErrOrStderr(), results, check, quiet, &hasErrors, &hasChanges)
	}

	if showTimings {
		recordStageTimings(timer, timings)
		printTimings(cmd.ErrOrStderr(), timer)
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if (check || showDiff) && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

// formatStdin formats standard input to standard output. Config discovery
// starts from the working directory.
func formatStdin(cmd *cobra.Command, opts driver.FormatOptions) error {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("fmt: read stdin: %w", err)
	}
	cfg, _, err := driver.SettingsFor(cmd.Context(), filepath.Join(".", "stdin.ps1"), opts)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(driver.FormatBytes("<stdin>", raw, cfg))
	return err
}

func renderFmtStdout(out, errOut io.Writer, results []driver.FormatResult, hasErrors *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = out.Write(res.Formatted)
	}
}

func renderFmtDiff(out, errOut io.Writer, results []driver.FormatResult, hasErrors, hasChanges *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		*hasChanges = true
		if err := diagfmt.WriteDiff(out, res.Path, res.Original, res.Formatted, useColor()); err != nil {
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, err)
		}
	}
}

func renderFmtText(out, errOut io.Writer, results []driver.FormatResult, check, quiet bool, hasErrors, hasChanges *bool) {
	changedColor := color.New(color.FgYellow)
	var changed, cached int
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if res.Cached {
			cached++
		}
		if !res.Changed {
			continue
		}
		*hasChanges = true
		changed++
		if quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
		} else {
			fmt.Fprintf(out, "%s %s\n", changedColor.Sprint("reformatted"), res.Path)
		}
	}
	if quiet {
		return
	}
	verb := "reformatted"
	if check {
		verb = "would reformat"
	}
	summary := fmt.Sprintf("%d files checked, %d %s", len(results), changed, verb)
	if cached > 0 {
		summary += fmt.Sprintf(", %d cached", cached)
	}
	fmt.Fprintln(errOut, color.New(color.Faint).Sprint(summary))
}

func renderFmtJSON(out io.Writer, results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Cached   bool   `json:"cached,omitempty"`
		Config   string `json:"config,omitempty"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, Cached: res.Cached, Config: res.Config, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
