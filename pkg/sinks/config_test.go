package sinks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSinksFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeSinksFile(t, "sinks.yaml", `
sinks:
  - id: webhook
    type: http
    http:
      url: https://hooks.example.com/news
      headers:
        Authorization: "Bearer tok"
  - id: queue
    type: sqs
    enabled: false
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123/news
      region: us-east-1
  - id: topic
    type: gcp_pubsub
    gcp_pubsub:
      project_id: newsfuse
      topic: articles
`)

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	all := reg.All()
	require.Len(t, all, 3)

	webhook, ok := reg.ByID("webhook")
	require.True(t, ok)
	assert.Equal(t, TypeHTTP, webhook.Type)
	assert.Equal(t, "POST", webhook.HTTP.Method, "method defaults to POST")
	assert.Equal(t, httpDefaultTimeoutSeconds, webhook.HTTP.TimeoutSeconds)
	assert.Equal(t, "Bearer tok", webhook.HTTP.Headers["Authorization"])

	enabled := reg.Enabled()
	require.Len(t, enabled, 2, "disabled sinks are excluded")
	assert.Equal(t, "webhook", enabled[0].ID)
	assert.Equal(t, "topic", enabled[1].ID)
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeSinksFile(t, "sinks.json", `{
  "sinks": [
    {"id": "alerts", "type": "sns", "sns": {"topic_arn": "arn:aws:sns:us-east-1:123:news", "region": "us-east-1"}}
  ]
}`)

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	cfg, ok := reg.ByID("alerts")
	require.True(t, ok)
	assert.Equal(t, TypeSNS, cfg.Type)
	assert.True(t, cfg.EnabledValue())
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	path := writeSinksFile(t, "sinks.yaml", `
sinks:
  - id: webhook
    type: http
    http: {url: https://a.example.com}
  - id: webhook
    type: http
    http: {url: https://b.example.com}
`)

	_, err := LoadRegistry(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate sink id")
}

func TestLoadRegistryValidation(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing id",
			yaml:    "sinks:\n  - type: http\n    http: {url: https://a.example.com}\n",
			wantErr: "id is required",
		},
		{
			name:    "missing type",
			yaml:    "sinks:\n  - id: a\n",
			wantErr: "type is required",
		},
		{
			name:    "http without url",
			yaml:    "sinks:\n  - id: a\n    type: http\n    http: {url: \"\"}\n",
			wantErr: "http.url is required",
		},
		{
			name:    "sqs without region",
			yaml:    "sinks:\n  - id: a\n    type: sqs\n    sqs: {uri: https://sqs.example.com/q}\n",
			wantErr: "sqs.region is required",
		},
		{
			name:    "pubsub without topic",
			yaml:    "sinks:\n  - id: a\n    type: gcp_pubsub\n    gcp_pubsub: {project_id: p}\n",
			wantErr: "gcp_pubsub.topic is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSinksFile(t, "sinks.yaml", tc.yaml)
			_, err := LoadRegistry(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadRegistryEmptyFile(t *testing.T) {
	path := writeSinksFile(t, "sinks.yaml", "sinks: []\n")
	_, err := LoadRegistry(path)
	require.Error(t, err)
}

func TestSanitizeHeadersDropsBlanks(t *testing.T) {
	out := sanitizeHeaders(map[string]string{
		"  X-Token ": " abc ",
		"Empty":      "   ",
		"":           "v",
	})
	assert.Equal(t, map[string]string{"X-Token": "abc"}, out)
}
