package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
models:
  user: {}
  post:
    belongsTo:
      author: user
factories:
  user:
    attrs:
      name: {sequence: "user-%d"}
      admin: false
    traits:
      admin:
        attrs:
          admin: true
  post:
    attrs:
      title: {sequence: "post-%d"}
      author: {association: user}
`

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreate_DumpsDatabase(t *testing.T) {
	manifest := writeManifest(t)

	out, err := run(t, "create", "post", "--count", "2", "-m", manifest)
	require.NoError(t, err)

	var dump map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	assert.Len(t, dump["posts"], 2)
	assert.Len(t, dump["users"], 2)
	assert.Equal(t, "post-0", dump["posts"][0]["title"])
	assert.Equal(t, dump["users"][0]["id"], dump["posts"][0]["authorId"])
}

func TestCreate_TraitsAndOverrides(t *testing.T) {
	manifest := writeManifest(t)

	out, err := run(t, "create", "user", "-m", manifest, "--created",
		"--trait", "admin", "--set", "age=42", "--set", "name=Ann Lee")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, true, records[0]["admin"])
	assert.Equal(t, float64(42), records[0]["age"])
	assert.Equal(t, "Ann Lee", records[0]["name"])
}

func TestCreate_BuildOnly(t *testing.T) {
	manifest := writeManifest(t)

	out, err := run(t, "create", "user", "-m", manifest, "--build", "-n", "3")
	require.NoError(t, err)

	var built []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &built))
	require.Len(t, built, 3)
	assert.Equal(t, "user-2", built[2]["name"])
	assert.NotContains(t, built[0], "id")
}

func TestCreate_Select(t *testing.T) {
	manifest := writeManifest(t)

	out, err := run(t, "create", "post", "-n", "2", "-m", manifest, "--select", "$.users[*].name")
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Equal(t, []string{"user-0", "user-1"}, names)
}

func TestCreate_Errors(t *testing.T) {
	manifest := writeManifest(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown type", []string{"create", "posts", "-m", manifest}, "no model or factory was found"},
		{"unknown trait", []string{"create", "post", "-t", "nope", "-m", manifest}, `trait "nope"`},
		{"bad assignment", []string{"create", "post", "--set", "title", "-m", manifest}, "expected key=value"},
		{"negative count", []string{"create", "post", "--count=-1", "-m", manifest}, "amount"},
		{"bad select", []string{"create", "post", "-m", manifest, "--select", "$.users["}, "invalid --select"},
		{"missing manifest", []string{"create", "post", "-m", filepath.Join(t.TempDir(), "none.yaml")}, "manifest file not found"},
		{"missing type", []string{"create", "-m", manifest}, "accepts 1 arg"},
		{"bad log level", []string{"create", "post", "-m", manifest, "--log-level", "loud"}, "unknown log level"},
		{"bad log format", []string{"create", "post", "-m", manifest, "--log-format", "xml"}, "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	manifest := writeManifest(t)

	out, err := run(t, "validate", "-m", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "Manifest valid: 2 models, 2 factories")
	assert.Contains(t, out, "admin")

	out, err = run(t, "validate", "-m", manifest, "--json")
	require.NoError(t, err)
	var result ValidateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, "posts", result.Models["post"])
	assert.Equal(t, []string{"admin"}, result.Factories["user"])
}

func TestValidate_Glob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("models:\n  user: {}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("models:\n  post:\n    belongsTo:\n      author: user\n"), 0o600))

	out, err := run(t, "validate", "-m", filepath.Join(dir, "*.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "2 models")
}

func TestValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models:\n  post:\n    belongsTo:\n      author: user\n"), 0o600))

	_, err := run(t, "validate", "-m", path)
	assert.ErrorContains(t, err, "unknown model")
}

func TestManifestFromEnv(t *testing.T) {
	manifest := writeManifest(t)
	t.Setenv(EnvManifest, manifest)

	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Manifest valid")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--json")
	require.NoError(t, err)

	var v VersionOutput
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.NotEmpty(t, v.Go)
	assert.NotEmpty(t, v.OS)
}
