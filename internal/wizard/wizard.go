package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Run executes the interactive wizard and returns the user's answers.
func Run(detection DetectionResult) (*Answers, error) {
	answers := &Answers{
		PodName:   "mypod",
		OutputDir: "units",
		PIDDir:    "/run",
	}

	var hints []string
	if detection.RuntimeAvailable {
		hints = append(hints, "podman detected")
	}
	if len(detection.ComposeFiles) > 0 {
		hints = append(hints, fmt.Sprintf("compose files found: %s", strings.Join(detection.ComposeFiles, ", ")))
	}

	desc := "A pod groups containers that share a network namespace."
	if len(hints) > 0 {
		desc += "\n\nAuto-detected:\n  " + strings.Join(hints, "\n  ")
	}

	var containerNames string
	seedCompose := len(detection.ComposeFiles) > 0
	composeFile := ""
	if seedCompose {
		composeFile = detection.ComposeFiles[0]
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("Name of your first pod").
				Description(desc).
				Value(&answers.PodName),
			huh.NewInput().
				Title("Container names (comma-separated)").
				Description("Members of the pod; definitions can be filled in later").
				Placeholder("app, db").
				Value(&containerNames),
		),
	}

	if len(detection.ComposeFiles) > 0 {
		groups = append(groups, huh.NewGroup(
			huh.NewConfirm().
				Title("Seed container definitions from a compose file?").
				Description("Each container will reference its compose service").
				Value(&seedCompose),
			huh.NewInput().
				Title("Compose file path").
				Value(&composeFile),
		))
	}

	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Output directory for unit files").
			Value(&answers.OutputDir),
		huh.NewInput().
			Title("Pid file directory on the target machine").
			Value(&answers.PIDDir),
	))

	form := huh.NewForm(groups...)
	if err := form.Run(); err != nil {
		return nil, err
	}

	for _, name := range strings.Split(containerNames, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		entry := ContainerEntry{Name: name}
		if seedCompose && composeFile != "" {
			entry.ComposeFile = composeFile
		}
		answers.Containers = append(answers.Containers, entry)
	}

	return answers, nil
}
