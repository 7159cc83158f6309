package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	yamlv3 "gopkg.in/yaml.v3"

	"pod2unit/internal/config"
	"pod2unit/internal/linker"
	"pod2unit/internal/manifest"
	"pod2unit/internal/ui"
	"pod2unit/internal/unit"
)

var (
	manifestFile  string
	outputDir     string
	runtimeBinary string
	runtimePIDDir string
	handoffFile   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate unit files from the pod manifest",
	Long: `Load and validate the pod manifest, link member containers to their
pods, and write one systemd unit file per pod and per container, plus the
rewritten container definitions for the surrounding container tooling.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&manifestFile, "manifest", "m", "", "pod manifest path")
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for unit files")
	generateCmd.Flags().StringVar(&runtimeBinary, "runtime", "", "container runtime executable")
	generateCmd.Flags().StringVar(&runtimePIDDir, "pid-dir", "", "directory units record infra pid files in")
	generateCmd.Flags().StringVar(&handoffFile, "handoff", "", "rewritten-containers file name")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), "run 'pod2unit init' to create a config file"))
		return err
	}

	applyFlagOverrides(cfg)

	fmt.Println(ui.Bold("Generating units..."))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	m, err := manifest.Load(ctx, cfg.Manifest)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Manifest rejected", err.Error(), "run 'pod2unit validate' for the full list of problems"))
		return err
	}
	ui.StepDone("manifest", fmt.Sprintf("%d pods", len(m.Pods)))

	if len(m.Pods) == 0 {
		ui.StepSkipped("units")
		ui.Success("Nothing to generate")
		return nil
	}

	linked, err := linker.Link(m)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Linking failed", err.Error(), "run 'pod2unit validate' for the full list of problems"))
		return err
	}
	ui.StepDone("linker", fmt.Sprintf("%d containers", len(linked)))

	rt := unit.Runtime{
		Binary: resolveRuntime(cfg.Runtime.Binary),
		PIDDir: cfg.Runtime.PIDDir,
	}

	units := make([]*unit.Unit, 0, len(m.Pods)+len(linked))
	for _, name := range m.Names() {
		units = append(units, unit.ForPod(m.Pods[name], rt))
	}
	for _, lc := range linked {
		units = append(units, unit.ForContainer(lc.Spec, lc.Pod, rt))
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to create output directory", err.Error(), ""))
		return err
	}
	for _, u := range units {
		path := filepath.Join(cfg.OutputDir, u.FileName())
		if err := os.WriteFile(path, []byte(unit.Render(u)), 0644); err != nil {
			fmt.Fprint(os.Stderr, ui.FormatError("Failed to write unit", err.Error(), ""))
			return err
		}
	}
	ui.StepDone("units", fmt.Sprintf("%d files", len(units)))

	if err := writeHandoff(cfg, linked); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to write hand-off file", err.Error(), ""))
		return err
	}

	ui.Success(fmt.Sprintf("Generated %d units for %d pods in %s", len(units), len(m.Pods), cfg.OutputDir))
	return nil
}

// writeHandoff emits the rewritten container definitions, keyed by their
// pod-qualified runtime names, for the surrounding container tooling to
// consume.
func writeHandoff(cfg *config.Config, linked []linker.Container) error {
	handoff := make(map[string]*manifest.ContainerSpec, len(linked))
	for _, lc := range linked {
		handoff[lc.Spec.Name] = lc.Spec
	}

	data, err := yamlv3.Marshal(handoff)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.OutputDir, cfg.Handoff), data, 0644)
}

func applyFlagOverrides(cfg *config.Config) {
	if manifestFile != "" {
		cfg.Manifest = manifestFile
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if runtimeBinary != "" {
		cfg.Runtime.Binary = runtimeBinary
	}
	if runtimePIDDir != "" {
		cfg.Runtime.PIDDir = runtimePIDDir
	}
	if handoffFile != "" {
		cfg.Handoff = handoffFile
	}
}

// resolveRuntime turns the configured runtime into the absolute path the
// unit files reference. The build host may not have the runtime installed
// (units are often generated for another machine), so an unresolvable
// binary falls back to the conventional location with a warning instead of
// failing the build.
func resolveRuntime(binary string) string {
	if strings.ContainsRune(binary, os.PathSeparator) {
		return binary
	}
	if path, err := findExecutable(binary); err == nil {
		return path
	}
	fallback := "/usr/bin/" + binary
	ui.Warn(fmt.Sprintf("%s not found in PATH, units will reference %s", binary, fallback))
	return fallback
}
