package manifest

import (
	"context"
	"fmt"
	"os"
	"sort"

	yamlv3 "gopkg.in/yaml.v3"
)

// Manifest is the validated set of declared pods, keyed by pod name.
type Manifest struct {
	Pods map[string]*PodSpec
}

// PodSpec holds the recognized configuration for one pod. Optional scalar
// fields are nil when absent so the command builder can tell "unset" from
// "set to the zero value"; the infra and no-hosts booleans are tri-state
// for the same reason.
type PodSpec struct {
	Name             string                    `yaml:"-"`
	AddedHosts       []string                  `yaml:"added-hosts"`
	CgroupParent     *string                   `yaml:"cgroup-parent"`
	DNS              []string                  `yaml:"dns"`
	DNSOptions       []string                  `yaml:"dns-options"`
	DNSSearch        []string                  `yaml:"dns-search"`
	Hostname         *string                   `yaml:"hostname"`
	Infra            *bool                     `yaml:"infra"`
	InfraCommand     *string                   `yaml:"infra-command"`
	InfraImage       *string                   `yaml:"infra-image"`
	StaticIP         *string                   `yaml:"static-ip"`
	MACAddress       *string                   `yaml:"mac-address"`
	Network          *string                   `yaml:"network"`
	NetworkAlias     *string                   `yaml:"network-alias"`
	NoHosts          *bool                     `yaml:"no-hosts"`
	PublishedPorts   []string                  `yaml:"published-ports"`
	SharedNamespaces []string                  `yaml:"shared-namespaces"`
	Containers       map[string]*ContainerSpec `yaml:"containers"`
}

// ContainerSpec describes one member container of a pod. A container may
// carry its full definition inline, or point at a compose file with
// compose-file/compose-service, in which case the compose service fills
// any field left unset here.
type ContainerSpec struct {
	Name           string            `yaml:"-"`
	Image          string            `yaml:"image,omitempty"`
	Command        []string          `yaml:"command,omitempty"`
	Environment    map[string]string `yaml:"environment,omitempty"`
	Volumes        []string          `yaml:"volumes,omitempty"`
	Ports          []string          `yaml:"ports,omitempty"`
	Labels         map[string]string `yaml:"labels,omitempty"`
	DependsOn      []string          `yaml:"depends-on,omitempty"`
	ExtraOptions   []string          `yaml:"extra-options,omitempty"`
	ComposeFile    string            `yaml:"compose-file,omitempty"`
	ComposeService string            `yaml:"compose-service,omitempty"`
}

// Names returns the pod names in sorted order. All generation iterates in
// this order so repeated builds of the same input are byte-identical.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Pods))
	for name := range m.Pods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContainerNames returns the member container names of a pod, sorted.
func (p *PodSpec) ContainerNames() []string {
	names := make([]string, 0, len(p.Containers))
	for name := range p.Containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads, validates, and materializes the pod manifest at path. Any
// schema violation fails the whole build: strict option-type checking
// prevents silently running with wrong settings. An empty or absent pods
// mapping is a valid no-op manifest.
func Load(ctx context.Context, path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, errs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	if err := resolveCompose(ctx, m, path); err != nil {
		return nil, err
	}
	return m, nil
}

// Parse decodes and schema-checks manifest bytes. Validation problems are
// returned as a list so the validate command can report all of them;
// a non-nil error means the document is not YAML at all.
func Parse(data []byte) (*Manifest, []ValidationError, error) {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}

	m := &Manifest{Pods: make(map[string]*PodSpec)}
	if errs := validateDocument(&doc); len(errs) > 0 {
		return nil, errs, nil
	}

	root := documentRoot(&doc)
	if root == nil {
		return m, nil, nil // empty manifest
	}
	pods := mappingValue(root, "pods")
	if pods == nil {
		return m, nil, nil
	}

	for i := 0; i < len(pods.Content); i += 2 {
		key, value := pods.Content[i], pods.Content[i+1]
		spec := &PodSpec{Name: key.Value}
		if err := value.Decode(spec); err != nil {
			return nil, nil, fmt.Errorf("pod %q: %w", key.Value, err)
		}
		for name, c := range spec.Containers {
			if c == nil {
				c = &ContainerSpec{}
				spec.Containers[name] = c
			}
			c.Name = name
		}
		m.Pods[key.Value] = spec
	}

	return m, nil, nil
}

func documentRoot(doc *yamlv3.Node) *yamlv3.Node {
	if doc.Kind != yamlv3.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yamlv3.MappingNode {
		return nil
	}
	return root
}

func mappingValue(mapping *yamlv3.Node, key string) *yamlv3.Node {
	for i := 0; i < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
