// Package linker rewrites member containers to join their pod: names and
// dependency references become pod-qualified, and the runtime invocation
// gains the --pod flag. The rewritten specs are what the per-container
// units and the hand-off document are generated from.
package linker

import (
	"fmt"

	"pod2unit/internal/manifest"
)

// Container is one pod-qualified member container. Spec is a rewritten
// copy; the input manifest is never mutated.
type Container struct {
	Pod  string
	Spec *manifest.ContainerSpec
}

// QualifiedName returns the runtime name of a pod member.
func QualifiedName(podName, ctrName string) string {
	return podName + "-" + ctrName
}

// Link rewrites every (pod, container) pair in the manifest. Output order
// follows sorted pod names, then sorted container names within each pod.
// A dependency referencing a container that is not a member of the same
// pod is a configuration error and fails the build.
func Link(m *manifest.Manifest) ([]Container, error) {
	if errs := Check(m); len(errs) > 0 {
		return nil, manifest.ValidationErrors(errs)
	}

	var out []Container
	for _, podName := range m.Names() {
		pod := m.Pods[podName]
		for _, ctrName := range pod.ContainerNames() {
			out = append(out, Container{
				Pod:  podName,
				Spec: rewrite(pod.Containers[ctrName], podName),
			})
		}
	}
	return out, nil
}

// Check verifies that every declared dependency names another member of
// the same pod. It reports all problems, for the validate command.
func Check(m *manifest.Manifest) []manifest.ValidationError {
	var errs []manifest.ValidationError
	for _, podName := range m.Names() {
		pod := m.Pods[podName]
		for _, ctrName := range pod.ContainerNames() {
			ctr := pod.Containers[ctrName]
			if ctr.Image == "" && ctr.ComposeFile == "" {
				errs = append(errs, manifest.ValidationError{
					Field:      fmt.Sprintf("pods.%s.containers.%s.image", podName, ctrName),
					Message:    "container has no image",
					Suggestion: "set image or reference a compose service with compose-file",
				})
			}
			for _, dep := range ctr.DependsOn {
				if dep == ctrName {
					errs = append(errs, manifest.ValidationError{
						Field:      fmt.Sprintf("pods.%s.containers.%s.depends-on", podName, ctrName),
						Message:    "container depends on itself",
						Suggestion: "remove the self-reference",
					})
					continue
				}
				if _, ok := pod.Containers[dep]; !ok {
					errs = append(errs, manifest.ValidationError{
						Field:      fmt.Sprintf("pods.%s.containers.%s.depends-on", podName, ctrName),
						Message:    fmt.Sprintf("dependency %q is not a member of pod %q", dep, podName),
						Suggestion: "dependencies must name containers declared in the same pod",
					})
				}
			}
		}
	}
	return errs
}

// rewrite returns a pod-qualified copy of a member container: qualified
// name, dependencies rewritten to their qualified form, and --pod appended
// to the extra runtime options.
func rewrite(ctr *manifest.ContainerSpec, podName string) *manifest.ContainerSpec {
	out := *ctr
	out.Name = QualifiedName(podName, ctr.Name)

	if len(ctr.DependsOn) > 0 {
		out.DependsOn = make([]string, len(ctr.DependsOn))
		for i, dep := range ctr.DependsOn {
			out.DependsOn[i] = QualifiedName(podName, dep)
		}
	}

	out.ExtraOptions = append(append([]string(nil), ctr.ExtraOptions...), "--pod="+podName)
	return &out
}
