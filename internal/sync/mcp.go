package sync

import (
	"fmt"
	"regexp"

	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/messages"
)

var envPlaceholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// selectedServers returns the catalog entries of the resolved MCP selections in id order.
func selectedServers(in Input) ([]catalog.MCPEntry, error) {
	if len(in.Resolved.MCP) == 0 {
		return nil, nil
	}
	cat := in.Catalog
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	out := make([]catalog.MCPEntry, 0, len(in.Resolved.MCP))
	for _, id := range in.Resolved.MCP {
		server, err := cat.MCPServer(id)
		if err != nil {
			return nil, err
		}
		out = append(out, server)
	}
	return out, nil
}

// serverFields is the shared JSON shape: stdio servers carry command/args/env, http servers url/headers.
// placeholder rewrites ${VAR} references for tools with their own syntax; nil keeps them as-is.
func serverFields(server catalog.MCPEntry, urlKey string, placeholder func(string) string) (map[string]any, error) {
	rewrite := func(value string) string {
		if placeholder == nil {
			return value
		}
		return envPlaceholderPattern.ReplaceAllStringFunc(value, func(match string) string {
			return placeholder(envPlaceholderPattern.FindStringSubmatch(match)[1])
		})
	}

	out := make(map[string]any)
	switch server.Transport {
	case catalog.TransportStdio:
		out["command"] = rewrite(server.Command)
		if len(server.Args) > 0 {
			args := make([]any, 0, len(server.Args))
			for _, arg := range server.Args {
				args = append(args, rewrite(arg))
			}
			out["args"] = args
		}
		if len(server.Env) > 0 {
			out["env"] = stringMap(server.Env, rewrite)
		}
	case catalog.TransportHTTP:
		out[urlKey] = rewrite(server.URL)
		if len(server.Headers) > 0 {
			out["headers"] = stringMap(server.Headers, rewrite)
		}
	default:
		return nil, fmt.Errorf(messages.SyncUnsupportedTransportFmt, server.ID, server.Transport)
	}
	return out, nil
}

func stringMap(values map[string]string, rewrite func(string) string) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[key] = rewrite(value)
	}
	return out
}
