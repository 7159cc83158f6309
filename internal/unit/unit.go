// Package unit turns pod and container specs into service-manager unit
// descriptors and renders them as systemd unit files.
package unit

import (
	"fmt"
	"path/filepath"

	"pod2unit/internal/manifest"
	"pod2unit/internal/podman"
)

// RestartPolicy is the systemd restart setting of a generated unit.
type RestartPolicy string

const (
	RestartNever     RestartPolicy = "no"
	RestartOnFailure RestartPolicy = "on-failure"
	RestartAlways    RestartPolicy = "always"
)

// ServiceType distinguishes forking pod units (the create invocation exits
// after handing off to the supervised infra process) from simple container
// units.
type ServiceType string

const (
	TypeForking ServiceType = "forking"
	TypeSimple  ServiceType = "simple"
)

// Graceful container teardown can be slow, so stopped units get well over
// a minute before systemd escalates.
const stopTimeoutSec = 70

// Unit is one service unit descriptor. It is generated once per build and
// immutable after generation; the rendered file set is the sole output
// artifact.
type Unit struct {
	Name        string // service name without the .service suffix
	Description string

	After    []string
	Wants    []string
	Requires []string
	WantedBy []string

	Type           ServiceType
	Restart        RestartPolicy
	TimeoutStopSec int
	PIDFile        string

	ExecStartPre []string
	ExecStart    string
	ExecStop     string
	ExecStopPost []string
}

// ServiceName returns the unit's systemd name, e.g. "pod-web.service".
func (u *Unit) ServiceName() string {
	return u.Name + ".service"
}

// FileName returns the unit file name for the output directory.
func (u *Unit) FileName() string {
	return u.ServiceName()
}

// Runtime describes the external container runtime the units shell out to.
type Runtime struct {
	Binary string // absolute path to the podman executable
	PIDDir string // directory for infra pid files, e.g. /run
}

// PodServiceName returns the unit name a pod's service is published under.
func PodServiceName(podName string) string {
	return "pod-" + podName + ".service"
}

// PIDFile returns the pid file path used to track a pod's infra process.
func (r Runtime) PIDFile(podName string) string {
	return filepath.Join(r.PIDDir, "pod-"+podName+".pid")
}

// ForPod builds the service unit for one pod: create the pod, start it,
// and track the infra process via its pid file. The stop invocation is
// issued both on ExecStop and ExecStopPost; the runtime's own generated
// units stop twice and downstream tooling depends on seeing both, so the
// duplication is intentional.
func ForPod(pod *manifest.PodSpec, rt Runtime) *Unit {
	pidFile := rt.PIDFile(pod.Name)
	stop := podman.StopArgs(pod.Name).Line(rt.Binary)

	return &Unit{
		Name:        "pod-" + pod.Name,
		Description: fmt.Sprintf("Pod %s", pod.Name),

		After:    []string{"network-online.target"},
		Wants:    []string{"network-online.target"},
		WantedBy: []string{"multi-user.target", "default.target"},

		Type:           TypeForking,
		Restart:        RestartOnFailure,
		TimeoutStopSec: stopTimeoutSec,
		PIDFile:        pidFile,

		ExecStartPre: []string{podman.CreateArgs(pod, pidFile).Line(rt.Binary)},
		ExecStart:    podman.StartArgs(pod.Name).Line(rt.Binary),
		ExecStop:     stop,
		ExecStopPost: []string{stop},
	}
}

// ForContainer builds the service unit for a pod-qualified member
// container. The spec must already be rewritten by the linker; the unit
// starts after and requires its parent pod's unit, and starts after each
// of its (already pod-qualified) dependencies.
func ForContainer(ctr *manifest.ContainerSpec, podName string, rt Runtime) *Unit {
	podService := PodServiceName(podName)

	after := []string{podService}
	for _, dep := range ctr.DependsOn {
		after = append(after, dep+".service")
	}

	return &Unit{
		Name:        ctr.Name,
		Description: fmt.Sprintf("Container %s (pod %s)", ctr.Name, podName),

		After:    after,
		Requires: []string{podService},
		WantedBy: []string{"multi-user.target", "default.target"},

		Type:           TypeSimple,
		Restart:        RestartOnFailure,
		TimeoutStopSec: stopTimeoutSec,

		ExecStart: podman.RunArgs(ctr).Line(rt.Binary),
		ExecStop:  podman.StopContainerArgs(ctr.Name).Line(rt.Binary),
	}
}
