package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullPod(t *testing.T) {
	m, verrs, err := Parse([]byte(`
pods:
  web:
    added-hosts: ["db:10.0.0.1"]
    cgroup-parent: machine.slice
    hostname: frontend
    infra: false
    no-hosts: true
    published-ports: ["8080:80"]
    shared-namespaces: [net, ipc]
    containers:
      app:
        image: nginx:1.25
        depends-on: [db]
      db:
        image: postgres:16
`))
	require.NoError(t, err)
	require.Empty(t, verrs)
	require.Len(t, m.Pods, 1)

	pod := m.Pods["web"]
	require.NotNil(t, pod)
	assert.Equal(t, "web", pod.Name)
	assert.Equal(t, []string{"db:10.0.0.1"}, pod.AddedHosts)
	require.NotNil(t, pod.CgroupParent)
	assert.Equal(t, "machine.slice", *pod.CgroupParent)
	require.NotNil(t, pod.Hostname)
	assert.Equal(t, "frontend", *pod.Hostname)
	require.NotNil(t, pod.Infra)
	assert.False(t, *pod.Infra)
	require.NotNil(t, pod.NoHosts)
	assert.True(t, *pod.NoHosts)
	assert.Equal(t, []string{"net", "ipc"}, pod.SharedNamespaces)

	require.Len(t, pod.Containers, 2)
	app := pod.Containers["app"]
	require.NotNil(t, app)
	assert.Equal(t, "app", app.Name)
	assert.Equal(t, "nginx:1.25", app.Image)
	assert.Equal(t, []string{"db"}, app.DependsOn)
}

func TestParseUnsetFieldsStayUnset(t *testing.T) {
	m, verrs, err := Parse([]byte(`
pods:
  minimal: {}
`))
	require.NoError(t, err)
	require.Empty(t, verrs)

	pod := m.Pods["minimal"]
	require.NotNil(t, pod)
	assert.Nil(t, pod.Hostname)
	assert.Nil(t, pod.Infra)
	assert.Nil(t, pod.NoHosts)
	assert.Nil(t, pod.CgroupParent)
	assert.Empty(t, pod.AddedHosts)
	assert.Empty(t, pod.Containers)
}

func TestParseEmptyManifest(t *testing.T) {
	for _, input := range []string{"", "pods:", "pods: {}"} {
		t.Run("input="+input, func(t *testing.T) {
			m, verrs, err := Parse([]byte(input))
			require.NoError(t, err)
			assert.Empty(t, verrs)
			assert.Empty(t, m.Pods)
		})
	}
}

func TestParseTypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{
			name:  "string where list expected",
			input: "pods:\n  web:\n    added-hosts: db:10.0.0.1\n",
			field: "pods.web.added-hosts",
		},
		{
			name:  "list where string expected",
			input: "pods:\n  web:\n    hostname: [a, b]\n",
			field: "pods.web.hostname",
		},
		{
			name:  "string where boolean expected",
			input: "pods:\n  web:\n    infra: \"yes\"\n",
			field: "pods.web.infra",
		},
		{
			name:  "integer in string list",
			input: "pods:\n  web:\n    dns: [8, \"1.1.1.1\"]\n",
			field: "pods.web.dns[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, verrs, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestParseUnknownOption(t *testing.T) {
	_, verrs, err := Parse([]byte(`
pods:
  web:
    hostnme: typo
`))
	require.NoError(t, err)
	require.Len(t, verrs, 1)
	assert.Equal(t, "pods.web.hostnme", verrs[0].Field)
	assert.Equal(t, "unknown option", verrs[0].Message)
}

func TestParseDuplicatePodName(t *testing.T) {
	_, verrs, err := Parse([]byte(`
pods:
  web:
    hostname: one
  web:
    hostname: two
`))
	require.NoError(t, err)
	require.NotEmpty(t, verrs)
	assert.Equal(t, "pods.web", verrs[0].Field)
	assert.Equal(t, "duplicate pod name", verrs[0].Message)
}

func TestParseDuplicatePodsKey(t *testing.T) {
	_, verrs, err := Parse([]byte(`
pods:
  web:
    hostname: one
pods:
  api:
    hostname: two
`))
	require.NoError(t, err)
	require.NotEmpty(t, verrs)
	assert.Equal(t, "pods", verrs[0].Field)
	assert.Equal(t, "duplicate 'pods' key", verrs[0].Message)
}

func TestParseInvalidNames(t *testing.T) {
	_, verrs, err := Parse([]byte(`
pods:
  "bad name":
    containers:
      "also/bad": {}
`))
	require.NoError(t, err)
	require.Len(t, verrs, 2)
	assert.Contains(t, verrs[0].Message, "invalid pod name")
	assert.Contains(t, verrs[1].Message, "invalid container name")
}

func TestParseReportsAllErrors(t *testing.T) {
	_, verrs, err := Parse([]byte(`
pods:
  web:
    hostname: [a]
    infra: 3
    unknown-thing: x
`))
	require.NoError(t, err)
	assert.Len(t, verrs, 3)
}

func TestLoadFixture(t *testing.T) {
	m, err := Load(context.Background(), "../../testdata/pods.yml")
	require.NoError(t, err)
	require.Len(t, m.Pods, 2)

	assert.Equal(t, []string{"empty", "web"}, m.Names())

	web := m.Pods["web"]
	assert.Equal(t, []string{"app", "db"}, web.ContainerNames())
	assert.Equal(t, map[string]string{"POSTGRES_DB": "app"}, web.Containers["db"].Environment)
}

func TestLoadRejectsInvalidManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pods.yml")
	require.NoError(t, os.WriteFile(path, []byte("pods:\n  web:\n    infra: not-a-bool\n"), 0644))

	_, err := Load(context.Background(), path)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "pods.web.infra", verrs[0].Field)
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "pods.web.infra", Message: "expected boolean, got string"},
		{Field: "pods.web.dns", Message: "expected list of strings, got string"},
	}
	assert.Equal(t, "pods.web.infra: expected boolean, got string (and 1 more validation errors)", errs.Error())
	assert.Equal(t, "pods.web.infra: expected boolean, got string", ValidationErrors{errs[0]}.Error())
}
