// Package workspace defines the backend facade the MCP tools call into,
// plus the exemplar tool set built on top of it.
//
// The protocol core treats every tool as opaque; this package is the
// boundary where the host IDE's project model, search engine, and launch
// machinery are plugged in.
package workspace

import "context"

// Project describes one project in the host workspace.
type Project struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// Match is one search hit inside a source module.
type Match struct {
	Module string `json:"module"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
}

// Tag is a user-defined label for organizing workspace objects.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Objects     int    `json:"objects"`
}

// Workspace is the host backend the tools operate against.
//
// Long-running operations (UpdateDatabase, DebugLaunch) take a context but
// are not required to stop when it is cancelled: the host operation may
// legitimately run to completion even after the protocol-level call has
// been resolved by an operator signal.
type Workspace interface {
	// Version returns the host environment version.
	Version() string

	// Projects lists all projects in the workspace.
	Projects(ctx context.Context) ([]Project, error)

	// Search runs a substring search across a project's source modules.
	Search(ctx context.Context, project, query string) ([]Match, error)

	// UpdateDatabase applies the project's configuration to its database.
	// Typically long-running.
	UpdateDatabase(ctx context.Context, project string, full bool) error

	// DebugLaunch starts the project's application in debug mode.
	DebugLaunch(ctx context.Context, project, application string) error

	// Tags lists the tags defined in a project.
	Tags(ctx context.Context, project string) ([]Tag, error)
}
