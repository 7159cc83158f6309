// Package podman builds argument vectors for the external container
// runtime CLI. Nothing here executes anything; the output is embedded in
// service units and run by the service manager at boot.
package podman

import (
	"sort"
	"strconv"

	"pod2unit/internal/manifest"
	"pod2unit/internal/util"
)

// Command is one runtime invocation: the argument vector passed to the
// podman executable, without the executable itself.
type Command []string

// Line renders the command as a shell command line prefixed with the
// runtime binary, quoting where needed.
func (c Command) Line(binary string) string {
	args := append([]string{binary}, c...)
	return util.QuoteCommand(args)
}

// CreateArgs builds the pod-creation invocation for a pod. The flag order
// is fixed: the unconditional tokens first, then optional flags in schema
// declaration order. Identical input always yields an identical vector,
// which keeps redeployments idempotent.
func CreateArgs(pod *manifest.PodSpec, pidFile string) Command {
	args := Command{
		"pod", "create",
		"--name=" + pod.Name,
		"--replace",
		"--infra-conmon-pidfile=" + pidFile,
	}

	args = appendList(args, "--add-host", pod.AddedHosts)
	args = appendScalar(args, "--cgroup-parent", pod.CgroupParent)
	args = appendList(args, "--dns", pod.DNS)
	args = appendList(args, "--dns-option", pod.DNSOptions)
	args = appendList(args, "--dns-search", pod.DNSSearch)
	args = appendScalar(args, "--hostname", pod.Hostname)
	args = appendBool(args, "--infra", pod.Infra)
	args = appendScalar(args, "--infra-command", pod.InfraCommand)
	args = appendScalar(args, "--infra-image", pod.InfraImage)
	args = appendScalar(args, "--ip", pod.StaticIP)
	args = appendScalar(args, "--mac-address", pod.MACAddress)
	args = appendScalar(args, "--network", pod.Network)
	args = appendScalar(args, "--network-alias", pod.NetworkAlias)
	args = appendBool(args, "--no-hosts", pod.NoHosts)
	args = appendList(args, "--publish", pod.PublishedPorts)
	args = appendList(args, "--share", pod.SharedNamespaces)

	return args
}

// StartArgs builds the invocation that starts an already-created pod.
func StartArgs(podName string) Command {
	return Command{"pod", "start", podName}
}

// StopArgs builds the invocation that stops a pod.
func StopArgs(podName string) Command {
	return Command{"pod", "stop", podName}
}

// RunArgs builds the invocation that runs a member container inside its
// pod. The container spec must already be pod-qualified by the linker:
// its name carries the pod prefix and its extra options carry --pod.
func RunArgs(ctr *manifest.ContainerSpec) Command {
	args := Command{
		"run",
		"--rm",
		"--name=" + ctr.Name,
	}

	args = appendMap(args, "--env", ctr.Environment)
	args = appendList(args, "--volume", ctr.Volumes)
	args = appendList(args, "--publish", ctr.Ports)
	args = appendMap(args, "--label", ctr.Labels)
	args = append(args, ctr.ExtraOptions...)
	args = append(args, ctr.Image)
	args = append(args, ctr.Command...)

	return args
}

// StopContainerArgs builds the invocation that stops a member container.
func StopContainerArgs(ctrName string) Command {
	return Command{"stop", ctrName}
}

func appendList(args Command, flag string, values []string) Command {
	for _, v := range values {
		args = append(args, flag+"="+v)
	}
	return args
}

func appendScalar(args Command, flag string, value *string) Command {
	if value == nil {
		return args
	}
	return append(args, flag+"="+*value)
}

func appendBool(args Command, flag string, value *bool) Command {
	if value == nil {
		return args
	}
	return append(args, flag+"="+strconv.FormatBool(*value))
}

func appendMap(args Command, flag string, values map[string]string) Command {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, flag+"="+k+"="+values[k])
	}
	return args
}
