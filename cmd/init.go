package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pod2unit/internal/ui"
	"pod2unit/internal/wizard"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a pod2unit.yml and starter pod manifest interactively",
	Long: `Scan the working directory for a container runtime and compose files,
then generate a tool config and a starter pods.yml through an interactive
wizard.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := "pod2unit.yml"
	manifestPath := "pods.yml"

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("%s already exists.\n", configPath)
		fmt.Print("Overwrite? [y/N] ")
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println(ui.Bold("Scanning environment..."))
	detection := wizard.Detect(nil)
	if detection.ManifestExists {
		ui.Warn(fmt.Sprintf("%s already exists and will be overwritten", manifestPath))
	}

	answers, err := wizard.Run(detection)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	configContent, err := wizard.GenerateConfig(*answers)
	if err != nil {
		return fmt.Errorf("generating config: %w", err)
	}
	manifestContent, err := wizard.GenerateManifest(*answers)
	if err != nil {
		return fmt.Errorf("generating manifest: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.WriteFile(manifestPath, []byte(manifestContent), 0600); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	ui.Success(fmt.Sprintf("Created %s and %s", configPath, manifestPath))
	fmt.Println()
	fmt.Printf("Next step: %s\n", ui.Bold("pod2unit generate"))
	fmt.Printf("           %s\n", ui.Hint("or edit pods.yml to declare your pods"))

	return nil
}
