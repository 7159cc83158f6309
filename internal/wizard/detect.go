package wizard

import (
	"os"
	"os/exec"
	"path/filepath"
)

// DetectionResult holds what was auto-detected on the system.
type DetectionResult struct {
	RuntimeAvailable bool     // podman found in PATH
	ComposeFiles     []string // compose files found near the working directory
	ManifestExists   bool     // a pods.yml is already present
}

// Detector abstracts filesystem and path lookups for testing.
type Detector interface {
	LookPath(name string) (string, error)
	Stat(path string) (os.FileInfo, error)
	Glob(pattern string) ([]string, error)
}

// OSDetector uses the real OS for detection.
type OSDetector struct{}

func (OSDetector) LookPath(name string) (string, error)  { return exec.LookPath(name) }
func (OSDetector) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }
func (OSDetector) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

// Detect scans the environment for a container runtime and compose files
// worth seeding the manifest from.
func Detect(d Detector) DetectionResult {
	if d == nil {
		d = OSDetector{}
	}

	result := DetectionResult{}

	if _, err := d.LookPath("podman"); err == nil {
		result.RuntimeAvailable = true
	}

	if _, err := d.Stat("pods.yml"); err == nil {
		result.ManifestExists = true
	}

	composePatterns := []string{
		"docker-compose.yml",
		"docker-compose.yaml",
		"compose.yml",
		"compose.yaml",
	}
	for _, pattern := range composePatterns {
		if _, err := d.Stat(pattern); err == nil {
			result.ComposeFiles = append(result.ComposeFiles, pattern)
		}
	}

	return result
}
