package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pod2unit/internal/config"
	"pod2unit/internal/linker"
	"pod2unit/internal/manifest"
	"pod2unit/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the pod manifest",
	Long: `Check the pod manifest against the option schema: field types,
unknown options, duplicate names, dependency references, and referenced
compose files. Reports every problem, not just the first.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&manifestFile, "manifest", "m", "", "pod manifest path")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), "run 'pod2unit init' to create a config file"))
		return err
	}

	applyFlagOverrides(cfg)

	fmt.Println(ui.Bold(fmt.Sprintf("Validating %s...", cfg.Manifest)))

	data, err := os.ReadFile(cfg.Manifest)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to read manifest", err.Error(), "pass the path with --manifest or set it in pod2unit.yml"))
		return err
	}

	passed := 0
	failed := 0

	m, verrs, err := manifest.Parse(data)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Manifest is not valid YAML", err.Error(), ""))
		return err
	}
	for _, ve := range verrs {
		ui.ValidationErr(ve.Field, ve.Message, ve.Suggestion)
		failed++
	}
	if len(verrs) == 0 {
		ui.ValidationOK("schema", fmt.Sprintf("%d pods match the option schema", len(m.Pods)))
		passed++

		for _, ve := range linker.Check(m) {
			ui.ValidationErr(ve.Field, ve.Message, ve.Suggestion)
			failed++
		}
		if failed == 0 {
			ui.ValidationOK("dependencies", "all references resolve within their pod")
			passed++
		}

		composeErrs := manifest.CheckComposeFiles(m, filepath.Dir(cfg.Manifest))
		for _, ve := range composeErrs {
			ui.ValidationErr(ve.Field, ve.Message, ve.Suggestion)
			failed++
		}
		if len(composeErrs) == 0 {
			ui.ValidationOK("compose", "all referenced compose files exist")
			passed++
		}
	}

	if _, err := findExecutable(cfg.Runtime.Binary); err == nil {
		ui.ValidationOK("runtime", cfg.Runtime.Binary+" found in PATH")
		passed++
	} else {
		ui.Warn(fmt.Sprintf("%s not found in PATH (fine if units target another machine)", cfg.Runtime.Binary))
	}

	fmt.Println()
	if failed == 0 {
		ui.Success(fmt.Sprintf("%d checks passed, 0 errors", passed))
		return nil
	}
	fmt.Printf("%d checks passed, %d errors\n", passed, failed)
	return fmt.Errorf("%d validation errors", failed)
}
