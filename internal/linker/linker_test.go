package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pod2unit/internal/manifest"
)

func webPod() *manifest.Manifest {
	return &manifest.Manifest{Pods: map[string]*manifest.PodSpec{
		"web": {
			Name: "web",
			Containers: map[string]*manifest.ContainerSpec{
				"app": {
					Name:      "app",
					Image:     "nginx:1.25",
					DependsOn: []string{"db"},
				},
				"db": {
					Name:  "db",
					Image: "postgres:16",
				},
			},
		},
	}}
}

func TestLinkQualifiesNames(t *testing.T) {
	linked, err := Link(webPod())
	require.NoError(t, err)
	require.Len(t, linked, 2)

	// Sorted container order within the pod.
	app, db := linked[0], linked[1]
	assert.Equal(t, "web-app", app.Spec.Name)
	assert.Equal(t, "web-db", db.Spec.Name)
	assert.Equal(t, "web", app.Pod)
}

func TestLinkRewritesDependencies(t *testing.T) {
	linked, err := Link(webPod())
	require.NoError(t, err)

	app := linked[0].Spec
	assert.Equal(t, []string{"web-db"}, app.DependsOn)
}

func TestLinkAppendsPodFlag(t *testing.T) {
	m := webPod()
	m.Pods["web"].Containers["app"].ExtraOptions = []string{"--user=33"}

	linked, err := Link(m)
	require.NoError(t, err)

	assert.Equal(t, []string{"--user=33", "--pod=web"}, linked[0].Spec.ExtraOptions)
	assert.Equal(t, []string{"--pod=web"}, linked[1].Spec.ExtraOptions)
}

func TestLinkDoesNotMutateInput(t *testing.T) {
	m := webPod()
	_, err := Link(m)
	require.NoError(t, err)

	app := m.Pods["web"].Containers["app"]
	assert.Equal(t, "app", app.Name)
	assert.Equal(t, []string{"db"}, app.DependsOn)
	assert.Empty(t, app.ExtraOptions)
}

func TestLinkMissingDependency(t *testing.T) {
	m := webPod()
	m.Pods["web"].Containers["app"].DependsOn = []string{"cache"}

	_, err := Link(m)
	require.Error(t, err)

	var verrs manifest.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "pods.web.containers.app.depends-on", verrs[0].Field)
	assert.Contains(t, verrs[0].Message, `"cache" is not a member of pod "web"`)
}

func TestCheckSelfDependency(t *testing.T) {
	m := webPod()
	m.Pods["web"].Containers["app"].DependsOn = []string{"app"}

	errs := Check(m)
	require.Len(t, errs, 1)
	assert.Equal(t, "container depends on itself", errs[0].Message)
}

func TestCheckMissingImage(t *testing.T) {
	m := webPod()
	m.Pods["web"].Containers["app"].Image = ""

	errs := Check(m)
	require.Len(t, errs, 1)
	assert.Equal(t, "pods.web.containers.app.image", errs[0].Field)
	assert.Equal(t, "container has no image", errs[0].Message)
}

func TestCheckComposeContainerNeedsNoImage(t *testing.T) {
	m := webPod()
	m.Pods["web"].Containers["app"].Image = ""
	m.Pods["web"].Containers["app"].ComposeFile = "docker-compose.yml"
	m.Pods["web"].Containers["app"].ComposeService = "app"

	assert.Empty(t, Check(m))
}

func TestCheckReportsAllProblems(t *testing.T) {
	m := webPod()
	m.Pods["web"].Containers["app"].DependsOn = []string{"cache", "queue"}

	errs := Check(m)
	assert.Len(t, errs, 2)
}

func TestLinkEmptyManifest(t *testing.T) {
	linked, err := Link(&manifest.Manifest{Pods: map[string]*manifest.PodSpec{}})
	require.NoError(t, err)
	assert.Empty(t, linked)
}
