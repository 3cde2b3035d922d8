package workspace

import (
	"context"
	"fmt"
	"strings"

	workspacemcp "github.com/wagiedev/workspace-mcp-go"
)

// Tools returns the full exemplar tool set backed by ws, ready to register
// with a server.
func Tools(ws Workspace) []workspacemcp.Tool {
	return []workspacemcp.Tool{
		NewVersionTool(ws),
		NewListProjectsTool(ws),
		NewSearchInCodeTool(ws),
		NewUpdateDatabaseTool(ws),
		NewDebugLaunchTool(ws),
		NewGetTagsTool(ws),
	}
}

// NewVersionTool reports the host environment version.
func NewVersionTool(ws Workspace) workspacemcp.Tool {
	return workspacemcp.NewTool(
		"get_version",
		"Get the workspace environment version",
		workspacemcp.SimpleSchema(nil),
		workspacemcp.KindText,
		func(_ context.Context, _ map[string]any) (any, error) {
			return ws.Version(), nil
		},
	)
}

// NewListProjectsTool lists all workspace projects with their properties.
func NewListProjectsTool(ws Workspace) workspacemcp.Tool {
	return workspacemcp.NewTool(
		"list_projects",
		"List all workspace projects with properties (name, path, kind)",
		workspacemcp.SimpleSchema(nil),
		workspacemcp.KindStructured,
		func(ctx context.Context, _ map[string]any) (any, error) {
			projects, err := ws.Projects(ctx)
			if err != nil {
				return nil, err
			}

			return map[string]any{"projects": projects}, nil
		},
	)
}

// NewSearchInCodeTool runs a substring search across a project's modules.
func NewSearchInCodeTool(ws Workspace) workspacemcp.Tool {
	return workspacemcp.NewTool(
		"search_in_code",
		"Full-text search across all source modules in a project",
		workspacemcp.SimpleSchema(map[string]string{
			"projectName": "string",
			"query":       "string",
		}),
		workspacemcp.KindResource,
		func(ctx context.Context, args map[string]any) (any, error) {
			project, query, err := requireTwo(args, "projectName", "query")
			if err != nil {
				return nil, err
			}

			matches, err := ws.Search(ctx, project, query)
			if err != nil {
				return nil, err
			}

			return formatMatches(query, matches), nil
		},
	)
}

// NewUpdateDatabaseTool applies configuration changes to the project
// database. This is the canonical long-running, signal-interruptible tool.
func NewUpdateDatabaseTool(ws Workspace) workspacemcp.Tool {
	return workspacemcp.NewTool(
		"update_database",
		"Update the database for a project. Supports full reload and incremental update",
		workspacemcp.SimpleSchema(map[string]string{
			"projectName": "string",
			"fullUpdate":  "bool",
		}),
		workspacemcp.KindText,
		func(ctx context.Context, args map[string]any) (any, error) {
			project, err := requireString(args, "projectName")
			if err != nil {
				return nil, err
			}

			full, _ := args["fullUpdate"].(bool)

			if err := ws.UpdateDatabase(ctx, project, full); err != nil {
				return nil, err
			}

			mode := "incremental"
			if full {
				mode = "full"
			}

			return fmt.Sprintf("Database updated (%s) for project %s", mode, project), nil
		},
	)
}

// NewDebugLaunchTool starts a project application in debug mode.
func NewDebugLaunchTool(ws Workspace) workspacemcp.Tool {
	return workspacemcp.NewTool(
		"debug_launch",
		"Launch an application in debug mode for a project",
		workspacemcp.SimpleSchema(map[string]string{
			"projectName":   "string",
			"applicationId": "string",
		}),
		workspacemcp.KindText,
		func(ctx context.Context, args map[string]any) (any, error) {
			project, application, err := requireTwo(args, "projectName", "applicationId")
			if err != nil {
				return nil, err
			}

			if err := ws.DebugLaunch(ctx, project, application); err != nil {
				return nil, err
			}

			return fmt.Sprintf("Debug session started for %s (%s)", project, application), nil
		},
	)
}

// NewGetTagsTool lists the tags defined in a project.
func NewGetTagsTool(ws Workspace) workspacemcp.Tool {
	return workspacemcp.NewTool(
		"get_tags",
		"Get the list of tags defined in a project with assigned object counts",
		workspacemcp.SimpleSchema(map[string]string{
			"projectName": "string",
		}),
		workspacemcp.KindStructured,
		func(ctx context.Context, args map[string]any) (any, error) {
			project, err := requireString(args, "projectName")
			if err != nil {
				return nil, err
			}

			tags, err := ws.Tags(ctx, project)
			if err != nil {
				return nil, err
			}

			return map[string]any{"tags": tags}, nil
		},
	)
}

func requireString(args map[string]any, key string) (string, error) {
	value, _ := args[key].(string)
	if value == "" {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}

	return value, nil
}

func requireTwo(args map[string]any, first, second string) (string, string, error) {
	a, err := requireString(args, first)
	if err != nil {
		return "", "", err
	}

	b, err := requireString(args, second)
	if err != nil {
		return "", "", err
	}

	return a, b, nil
}

// formatMatches renders search results as markdown.
func formatMatches(query string, matches []Match) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Search results for %q\n\n", query)

	if len(matches) == 0 {
		sb.WriteString("No matches found.\n")

		return sb.String()
	}

	fmt.Fprintf(&sb, "%d match(es):\n\n", len(matches))

	for _, m := range matches {
		fmt.Fprintf(&sb, "- `%s:%d`: %s\n", m.Module, m.Line, strings.TrimSpace(m.Text))
	}

	return sb.String()
}
