package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/versionwatch/pkg/rules"
	"github.com/matzehuels/versionwatch/pkg/versions"
)

// report is the result of an update check, shared by "check" and the HTTP API.
type report struct {
	Project      string              `json:"project,omitempty"`
	Dependencies []*versions.Updates `json:"dependencies"`
	Plugins      []pluginReport      `json:"plugins,omitempty"`
}

type pluginReport struct {
	*versions.Updates
	Dependencies []*versions.Updates `json:"dependencies,omitempty"`
}

func newReport(project string, deps *versions.Ordered[versions.Dependency, *versions.Updates], plugins *versions.Ordered[versions.Plugin, *versions.PluginUpdates]) *report {
	r := &report{Project: project, Dependencies: deps.Values()}
	if r.Dependencies == nil {
		r.Dependencies = []*versions.Updates{}
	}
	for _, p := range plugins.All() {
		r.Plugins = append(r.Plugins, pluginReport{Updates: p.Updates, Dependencies: p.Dependencies.Values()})
	}
	return r
}

// outdated counts the entries with a newer version, nested plugin
// dependencies included.
func (r *report) outdated() int {
	n := 0
	for _, u := range r.Dependencies {
		if u.HasUpdates() {
			n++
		}
	}
	for _, p := range r.Plugins {
		if p.HasUpdates() {
			n++
		}
		for _, u := range p.Dependencies {
			if u.HasUpdates() {
				n++
			}
		}
	}
	return n
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderReport prints the outdated entries as tables.
func renderReport(w io.Writer, r *report) {
	if r.outdated() == 0 {
		printSuccess(w, "All %d dependencies and %d plugins are up to date", len(r.Dependencies), len(r.Plugins))
		return
	}

	depRows := updateRows(r.Dependencies, "")
	if len(depRows) > 0 {
		fmt.Fprintln(w, styleTitle.Render("Dependencies"))
		fmt.Fprintln(w, updatesTable(depRows))
	}

	var pluginRows [][]string
	for _, p := range r.Plugins {
		nested := updateRows(p.Dependencies, "  "+iconNested+" ")
		if p.Updates.HasUpdates() || len(nested) > 0 {
			pluginRows = append(pluginRows, updateRow(p.Updates, ""))
			pluginRows = append(pluginRows, nested...)
		}
	}
	if len(pluginRows) > 0 {
		if len(depRows) > 0 {
			printNewline(w)
		}
		fmt.Fprintln(w, styleTitle.Render("Plugins"))
		fmt.Fprintln(w, updatesTable(pluginRows))
	}

	printNewline(w)
	printInfo(w, "%d of %d entries can be updated", r.outdated(), r.total())
}

func (r *report) total() int {
	n := len(r.Dependencies) + len(r.Plugins)
	for _, p := range r.Plugins {
		n += len(p.Dependencies)
	}
	return n
}

func updateRows(updates []*versions.Updates, indent string) [][]string {
	var rows [][]string
	for _, u := range updates {
		if u.HasUpdates() {
			rows = append(rows, updateRow(u, indent))
		}
	}
	return rows
}

func updateRow(u *versions.Updates, indent string) []string {
	next, _ := u.Next()
	if next == "" {
		next = "-"
	}
	current := u.Current
	if current == "" {
		current = "-"
	}
	return []string{indent + u.Coordinate.String(), current, next, u.Latest, u.Comparator}
}

func updatesTable(rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleMuted).
		Headers("ARTIFACT", "CURRENT", "NEXT", "LATEST", "METHOD").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 3:
				return styleCell.Inherit(styleUpdate)
			default:
				return styleCell
			}
		})
	return t.String()
}

// ruleInfo describes how one artifact is governed by the rule set.
type ruleInfo struct {
	Coordinate       versions.Coordinate   `json:"coordinate"`
	Rule             *rules.Rule           `json:"rule"`
	ComparisonMethod string                `json:"comparison_method"`
	IgnoreVersions   []rules.IgnoreVersion `json:"ignore_versions"`
}

func describeRule(h *versions.Helper, c versions.Coordinate) ruleInfo {
	ignored := h.IgnoredVersions(c.GroupID, c.ArtifactID)
	if ignored == nil {
		ignored = []rules.IgnoreVersion{}
	}
	return ruleInfo{
		Coordinate:       c,
		Rule:             h.BestFitRule(c.GroupID, c.ArtifactID),
		ComparisonMethod: h.ComparatorFor(c.GroupID, c.ArtifactID).Name(),
		IgnoreVersions:   ignored,
	}
}

// versionsInfo is the filtered version list of one artifact.
type versionsInfo struct {
	Coordinate       versions.Coordinate `json:"coordinate"`
	ComparisonMethod string              `json:"comparison_method"`
	Versions         []string            `json:"versions"`
	Latest           string              `json:"latest,omitempty"`
}

func newVersionsInfo(view *versions.ArtifactVersions) versionsInfo {
	latest, _ := view.Newest()
	sorted := view.Sorted()
	if sorted == nil {
		sorted = []string{}
	}
	return versionsInfo{
		Coordinate:       view.Coordinate,
		ComparisonMethod: view.Comparator.Name(),
		Versions:         sorted,
		Latest:           latest,
	}
}
