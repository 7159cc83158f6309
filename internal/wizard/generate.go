package wizard

import (
	"bytes"
	"text/template"
)

// Answers holds all user responses from the wizard.
type Answers struct {
	PodName    string
	Containers []ContainerEntry
	OutputDir  string
	PIDDir     string
}

// ContainerEntry is one member container of the starter pod.
type ContainerEntry struct {
	Name        string
	ComposeFile string
}

const configTemplate = `# pod2unit configuration

manifest: pods.yml
output_dir: {{ .OutputDir }}

runtime:
  binary: podman
  pid_dir: {{ .PIDDir }}
`

const manifestTemplate = `# pod2unit pod manifest
# Each pod becomes a systemd unit; its containers join the pod's
# shared network namespace.

pods:
  {{ .PodName }}:
{{- if .Containers }}
    containers:
{{- range .Containers }}
      {{ .Name }}:
{{- if .ComposeFile }}
        compose-file: {{ .ComposeFile }}
{{- else }}
        image: # image reference, e.g. docker.io/library/nginx:latest
{{- end }}
{{- end }}
{{- else }}
    containers: {}
{{- end }}
`

// GenerateConfig renders the pod2unit.yml content from wizard answers.
func GenerateConfig(answers Answers) (string, error) {
	return renderTemplate("config", configTemplate, answers)
}

// GenerateManifest renders the starter pods.yml content from wizard answers.
func GenerateManifest(answers Answers) (string, error) {
	return renderTemplate("manifest", manifestTemplate, answers)
}

func renderTemplate(name, text string, answers Answers) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, answers); err != nil {
		return "", err
	}
	return buf.String(), nil
}
