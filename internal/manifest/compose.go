package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	compose "github.com/compose-spec/compose-go/v2/types"
)

// resolveCompose fills in member containers that reference a compose
// service. Manifest-level fields always win; compose only supplies what
// was left unset. Paths are resolved relative to the manifest file.
func resolveCompose(ctx context.Context, m *Manifest, manifestPath string) error {
	baseDir := filepath.Dir(manifestPath)

	for _, podName := range m.Names() {
		pod := m.Pods[podName]
		for _, ctrName := range pod.ContainerNames() {
			ctr := pod.Containers[ctrName]
			if ctr.ComposeFile == "" {
				continue
			}

			path := ctr.ComposeFile
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			svcName := ctr.ComposeService
			if svcName == "" {
				svcName = ctr.Name
			}

			svc, err := loadComposeService(ctx, path, svcName)
			if err != nil {
				return fmt.Errorf("pod %q container %q: %w", podName, ctrName, err)
			}
			applyComposeService(ctr, svc)

			// Build-only compose services carry no image; a unit
			// generated from one could never start.
			if ctr.Image == "" {
				return fmt.Errorf("pod %q container %q: compose service %q has no image", podName, ctrName, svcName)
			}
		}
	}
	return nil
}

// CheckComposeFiles verifies that every compose file referenced by a
// member container exists, without parsing it. Used by the validate
// command to report all problems at once.
func CheckComposeFiles(m *Manifest, baseDir string) []ValidationError {
	var errs []ValidationError
	for _, podName := range m.Names() {
		pod := m.Pods[podName]
		for _, ctrName := range pod.ContainerNames() {
			ctr := pod.Containers[ctrName]
			if ctr.ComposeFile == "" {
				continue
			}
			path := ctr.ComposeFile
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			if _, err := os.Stat(path); err != nil {
				errs = append(errs, ValidationError{
					Field:      fmt.Sprintf("pods.%s.containers.%s.compose-file", podName, ctrName),
					Message:    fmt.Sprintf("file not found: %s", ctr.ComposeFile),
					Suggestion: "check the path or remove this entry",
				})
			}
		}
	}
	return errs
}

// loadComposeService parses a compose file and returns the named service.
func loadComposeService(ctx context.Context, path, service string) (compose.ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return compose.ServiceConfig{}, fmt.Errorf("read compose file: %w", err)
	}

	configDetails := compose.ConfigDetails{
		WorkingDir: filepath.Dir(path),
		ConfigFiles: []compose.ConfigFile{
			{Filename: filepath.Base(path), Content: data},
		},
	}

	project, err := loader.LoadWithContext(ctx, configDetails, func(o *loader.Options) {
		o.SetProjectName("pod2unit", false)
		o.SkipValidation = true
	})
	if err != nil {
		return compose.ServiceConfig{}, fmt.Errorf("parse compose file %s: %w", path, err)
	}

	svc, ok := project.Services[service]
	if !ok {
		return compose.ServiceConfig{}, fmt.Errorf("compose file %s has no service %q", path, service)
	}
	return svc, nil
}

// applyComposeService copies the compose service definition into any
// container fields still unset in the manifest.
func applyComposeService(ctr *ContainerSpec, svc compose.ServiceConfig) {
	if ctr.Image == "" {
		ctr.Image = svc.Image
	}
	if len(ctr.Command) == 0 && len(svc.Command) > 0 {
		ctr.Command = append([]string(nil), svc.Command...)
	}
	if len(ctr.Environment) == 0 && len(svc.Environment) > 0 {
		ctr.Environment = make(map[string]string, len(svc.Environment))
		for key, value := range svc.Environment {
			if value != nil {
				ctr.Environment[key] = *value
			}
		}
	}
	if len(ctr.Volumes) == 0 {
		ctr.Volumes = composeVolumes(svc.Volumes)
	}
	if len(ctr.Ports) == 0 {
		ctr.Ports = composePorts(svc.Ports)
	}
	if len(ctr.Labels) == 0 && len(svc.Labels) > 0 {
		ctr.Labels = make(map[string]string, len(svc.Labels))
		for key, value := range svc.Labels {
			ctr.Labels[key] = value
		}
	}
	if len(ctr.DependsOn) == 0 && len(svc.DependsOn) > 0 {
		deps := make([]string, 0, len(svc.DependsOn))
		for name := range svc.DependsOn {
			deps = append(deps, name)
		}
		sort.Strings(deps)
		ctr.DependsOn = deps
	}
}

func composeVolumes(volumes []compose.ServiceVolumeConfig) []string {
	out := make([]string, 0, len(volumes))
	for _, v := range volumes {
		if strings.TrimSpace(v.Target) == "" {
			continue
		}
		entry := v.Source + ":" + v.Target
		if v.ReadOnly {
			entry += ":ro"
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func composePorts(ports []compose.ServicePortConfig) []string {
	out := make([]string, 0, len(ports))
	for _, p := range ports {
		entry := fmt.Sprintf("%d", p.Target)
		if p.Published != "" {
			entry = p.Published + ":" + entry
		}
		proto := strings.ToLower(strings.TrimSpace(p.Protocol))
		if proto != "" && proto != "tcp" {
			entry += "/" + proto
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
