// Package flatpak implements the app-store backend on top of the flatpak CLI.
package flatpak

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"go.trai.ch/zerr"
)

// Binary is the flatpak executable name.
const Binary = "flatpak"

// Adapter implements ports.Backend[domain.AppItem] using the flatpak CLI.
type Adapter struct {
	runner ports.CommandRunner
	logger ports.Logger
	remote string

	mu     sync.Mutex
	scopes map[string][]domain.Scope
}

// New creates an Adapter that installs from remote.
func New(runner ports.CommandRunner, log ports.Logger, remote string) *Adapter {
	if remote == "" {
		remote = domain.DefaultRemote
	}
	return &Adapter{runner: runner, logger: log, remote: remote}
}

// Installed lists the installed applications.
func (a *Adapter) Installed(ctx context.Context) ([]domain.AppItem, error) {
	out, err := a.runner.Output(ctx, Binary, "list", "--app", "--columns=application,installation")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list installed applications")
	}
	items, err := parseList(out)
	if err != nil {
		return nil, err
	}

	scopes := make(map[string][]domain.Scope, len(items))
	for _, item := range items {
		scopes[item.ID] = append(scopes[item.ID], item.Scope)
	}
	a.mu.Lock()
	a.scopes = scopes
	a.mu.Unlock()
	return items, nil
}

// Install installs items, one flatpak invocation per scope.
func (a *Adapter) Install(ctx context.Context, items []domain.AppItem) error {
	for _, group := range groupByScope(items) {
		args := []string{"install", "--noninteractive"}
		if group.scope != "" {
			args = append(args, group.scope.Flag())
		}
		args = append(args, a.remote)
		args = append(args, group.ids...)

		a.logger.Info("installing " + strings.Join(group.ids, ", "))
		if err := a.runner.Stream(ctx, a.logger, Binary, args...); err != nil {
			err = zerr.With(zerr.Wrap(err, "flatpak install failed"), "items", strings.Join(group.ids, ","))
			return zerr.With(err, "scope", string(group.scope))
		}
	}
	return nil
}

// Remove uninstalls items, one flatpak invocation per scope. An app that the
// last Installed call saw in several scopes is removed from all of them.
func (a *Adapter) Remove(ctx context.Context, items []domain.AppItem) error {
	for _, group := range groupByScope(a.allScopes(items)) {
		args := []string{"uninstall", "--noninteractive"}
		if group.scope != "" {
			args = append(args, group.scope.Flag())
		}
		args = append(args, group.ids...)

		a.logger.Info("removing " + strings.Join(group.ids, ", "))
		if err := a.runner.Stream(ctx, a.logger, Binary, args...); err != nil {
			err = zerr.With(zerr.Wrap(err, "flatpak uninstall failed"), "items", strings.Join(group.ids, ","))
			return zerr.With(err, "scope", string(group.scope))
		}
	}
	return nil
}

// allScopes expands each item into every scope its app is installed in.
func (a *Adapter) allScopes(items []domain.AppItem) []domain.AppItem {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]domain.AppItem, 0, len(items))
	seen := make(map[domain.AppItem]struct{}, len(items))
	add := func(item domain.AppItem) {
		if _, ok := seen[item]; ok {
			return
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	for _, item := range items {
		add(item)
		for _, scope := range a.scopes[item.ID] {
			add(domain.AppItem{ID: item.ID, Scope: scope})
		}
	}
	return out
}

// parseList reads "application<TAB>installation" lines.
// The installation column is optional; blank lines are ignored.
func parseList(out []byte) ([]domain.AppItem, error) {
	items := []domain.AppItem{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		item := domain.AppItem{ID: fields[0]}
		if len(fields) > 1 {
			if scope, ok := domain.ParseScope(fields[1]); ok {
				item.Scope = scope
			}
		}
		items = append(items, item)
	}
	if err := sc.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to parse flatpak list output")
	}
	return items, nil
}

type scopeGroup struct {
	scope domain.Scope
	ids   []string
}

// groupByScope partitions items by scope, keeping first-seen order.
func groupByScope(items []domain.AppItem) []scopeGroup {
	var groups []scopeGroup
	index := make(map[domain.Scope]int)
	for _, item := range items {
		i, ok := index[item.Scope]
		if !ok {
			i = len(groups)
			index[item.Scope] = i
			groups = append(groups, scopeGroup{scope: item.Scope})
		}
		groups[i].ids = append(groups[i].ids, item.ID)
	}
	return groups
}
