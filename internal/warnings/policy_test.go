package warnings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/resolve"
)

func TestCheckPolicy_SecretInURL(t *testing.T) {
	cat := &catalog.Catalog{MCP: []catalog.MCPEntry{
		{ID: "leaky", Transport: catalog.TransportHTTP, URL: "https://api.example.com/mcp?api_key=abc123"},
		{ID: "placeholder", Transport: catalog.TransportHTTP, URL: "https://api.example.com/mcp?token=${API_TOKEN}"},
		{ID: "userinfo", Transport: catalog.TransportHTTP, URL: "https://bob:pw@api.example.com/mcp"},
		{ID: "unselected", Transport: catalog.TransportHTTP, URL: "https://api.example.com/mcp?secret=x"},
	}}
	resolved := resolve.Resolved{MCP: []string{"leaky", "placeholder", "userinfo"}}

	results := CheckPolicy(resolved, cat)
	require.Len(t, results, 2)
	assert.Equal(t, CodePolicySecretInURL, results[0].Code)
	assert.Equal(t, "leaky", results[0].Subject)
	assert.Contains(t, results[0].Details[0], "api_key")
	assert.Equal(t, "userinfo", results[1].Subject)
	assert.Contains(t, results[1].Details[0], "userinfo")
}

func TestCheckPolicy_LiteralSecretInEnvIsMasked(t *testing.T) {
	cat := &catalog.Catalog{MCP: []catalog.MCPEntry{{
		ID:        "aws",
		Transport: catalog.TransportStdio,
		Command:   "aws-mcp",
		Env:       map[string]string{"AWS_ACCESS_KEY_ID": "AKIA1234567890123456", "REGION": "us-east-1"},
	}}}
	results := CheckPolicy(resolve.Resolved{MCP: []string{"aws"}}, cat)
	require.Len(t, results, 1)
	assert.Equal(t, CodePolicySecretLiteral, results[0].Code)
	require.Len(t, results[0].Details, 1)
	assert.Contains(t, results[0].Details[0], "AKIA...3456")
	assert.False(t, strings.Contains(results[0].String(), "AKIA1234567890123456"))
}

func TestCheckPolicy_YOLO(t *testing.T) {
	results := CheckPolicy(resolve.Resolved{ApprovalMode: "yolo"}, nil)
	require.Len(t, results, 1)
	assert.Equal(t, CodePolicyYOLO, results[0].Code)
}

func TestCheckPolicy_Clean(t *testing.T) {
	assert.Nil(t, CheckPolicy(resolve.Resolved{ApprovalMode: "default"}, &catalog.Catalog{}))
}
