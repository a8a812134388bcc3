// Package render presents pending changes as tables.
package render

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table implements ports.Renderer using go-pretty tables.
type Table struct {
	w io.Writer
}

// NewTable creates a Table renderer writing to w.
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

// RenderPlan writes one row per package, sorted by identity.
func (t *Table) RenderPlan(provider string, action domain.Action, keys []string) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	tw := table.NewWriter()
	tw.SetOutputMirror(t.w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(strings.ToUpper(string(action)) + " (" + provider + ")")
	tw.AppendHeader(table.Row{"#", "Package"})
	for i, key := range sorted {
		tw.AppendRow(table.Row{i + 1, key})
	}
	tw.AppendFooter(table.Row{"", pluralize(len(sorted))})
	tw.Render()
}

func pluralize(n int) string {
	if n == 1 {
		return "1 package"
	}
	return strconv.Itoa(n) + " packages"
}
