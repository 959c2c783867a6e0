package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"webtools/internal/domain/entity"
)

type mapConfig map[string]string

func (m mapConfig) Get(key string) string     { return m[key] }
func (m mapConfig) MustGet(key string) string { return m[key] }
func (m mapConfig) GetWithDefault(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}
func (m mapConfig) GetBool(key string, def bool) bool                       { return def }
func (m mapConfig) GetInt(key string, def int) int                          { return def }
func (m mapConfig) GetDuration(key string, def time.Duration) time.Duration { return def }

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr).WithConfig(mapConfig{})
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "webtools version dev\n", out)
}

func TestList_JSON(t *testing.T) {
	out, err := run(t, "list", "--format", "json")
	require.NoError(t, err)

	var infos []entity.EntryInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.NotEmpty(t, infos)
	assert.Equal(t, "amazon", infos[0].ID)

	ids := make([]string, 0, len(infos))
	for _, e := range infos {
		ids = append(ids, e.ID)
		assert.NotEmpty(t, e.Domains)
		assert.NotEmpty(t, e.Tools)
	}
	assert.Contains(t, ids, "gmail")
	assert.Contains(t, ids, "slack")
	assert.Contains(t, ids, "google-docs")
}

func TestList_YAML(t *testing.T) {
	out, err := run(t, "list", "-f", "yaml")
	require.NoError(t, err)

	var infos []entity.EntryInfo
	require.NoError(t, yaml.Unmarshal([]byte(out), &infos))
	require.NotEmpty(t, infos)
	assert.Equal(t, "object", infos[0].Tools[0].InputSchema.Type)
}

func TestList_FilteredByURL(t *testing.T) {
	out, err := run(t, "list", "--format", "json", "--url", "https://mail.google.com/mail/u/0/#inbox")
	require.NoError(t, err)

	var infos []entity.EntryInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "gmail", infos[0].ID)

	names := make([]entity.ToolName, 0, len(infos[0].Tools))
	for _, tool := range infos[0].Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, entity.ToolName("go_to_inbox"))
}

func TestList_Text(t *testing.T) {
	out, err := run(t, "list", "--url", "https://example.org/")
	require.NoError(t, err)
	assert.Equal(t, "No tools available.\n", out)

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Amazon (amazon) [amazon.com")
	assert.Contains(t, out, "get_cart_count")
}

func TestList_Errors(t *testing.T) {
	_, err := run(t, "list", "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, "list", "--url", "not a url")
	assert.Error(t, err)
}

func TestCall_RequiresTwoArgs(t *testing.T) {
	_, err := run(t, "call", "amazon")
	assert.Error(t, err)
}
