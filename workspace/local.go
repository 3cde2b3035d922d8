package workspace

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Local is an in-memory Workspace used by the standalone server binary and
// in tests. Projects and module sources are held in maps; the long-running
// operations simulate work with a configurable delay so signal handling can
// be exercised end to end.
type Local struct {
	version string

	// OperationDelay is how long UpdateDatabase and DebugLaunch take.
	// Zero means they return immediately.
	OperationDelay time.Duration

	mu       sync.RWMutex
	projects map[string]*localProject
}

type localProject struct {
	project Project
	modules map[string]string
	tags    []Tag
}

// NewLocal returns an empty Local workspace reporting the given version.
func NewLocal(version string) *Local {
	return &Local{
		version:  version,
		projects: make(map[string]*localProject),
	}
}

// AddProject registers a project. Existing projects with the same name are
// replaced.
func (l *Local) AddProject(p Project) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.projects[p.Name] = &localProject{
		project: p,
		modules: make(map[string]string),
	}
}

// AddModule attaches module source text to a project for search.
func (l *Local) AddModule(projectName, moduleName, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.projects[projectName]; ok {
		p.modules[moduleName] = source
	}
}

// AddTag attaches a tag to a project.
func (l *Local) AddTag(projectName string, tag Tag) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.projects[projectName]; ok {
		p.tags = append(p.tags, tag)
	}
}

func (l *Local) Version() string {
	return l.version
}

func (l *Local) Projects(_ context.Context) ([]Project, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Project, 0, len(l.projects))
	for _, p := range l.projects {
		out = append(out, p.project)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (l *Local) Search(_ context.Context, projectName, query string) ([]Match, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.projects[projectName]
	if !ok {
		return nil, fmt.Errorf("project not found: %s", projectName)
	}

	needle := strings.ToLower(query)

	var matches []Match

	moduleNames := make([]string, 0, len(p.modules))
	for name := range p.modules {
		moduleNames = append(moduleNames, name)
	}

	sort.Strings(moduleNames)

	for _, name := range moduleNames {
		for i, line := range strings.Split(p.modules[name], "\n") {
			if strings.Contains(strings.ToLower(line), needle) {
				matches = append(matches, Match{
					Module: name,
					Line:   i + 1,
					Text:   line,
				})
			}
		}
	}

	return matches, nil
}

func (l *Local) UpdateDatabase(ctx context.Context, projectName string, _ bool) error {
	if err := l.lookupErr(projectName); err != nil {
		return err
	}

	return l.simulateWork(ctx)
}

func (l *Local) DebugLaunch(ctx context.Context, projectName, applicationID string) error {
	if applicationID == "" {
		return fmt.Errorf("application id is required")
	}

	if err := l.lookupErr(projectName); err != nil {
		return err
	}

	return l.simulateWork(ctx)
}

func (l *Local) Tags(_ context.Context, projectName string) ([]Tag, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.projects[projectName]
	if !ok {
		return nil, fmt.Errorf("project not found: %s", projectName)
	}

	out := make([]Tag, len(p.tags))
	copy(out, p.tags)

	return out, nil
}

func (l *Local) lookupErr(projectName string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.projects[projectName]; !ok {
		return fmt.Errorf("project not found: %s", projectName)
	}

	return nil
}

// simulateWork blocks for OperationDelay. The operation keeps running even
// when ctx is cancelled, matching real database updates that cannot be
// interrupted mid-flight.
func (l *Local) simulateWork(_ context.Context) error {
	if l.OperationDelay > 0 {
		time.Sleep(l.OperationDelay)
	}

	return nil
}
