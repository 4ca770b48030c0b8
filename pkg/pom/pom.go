package pom

import (
	"encoding/xml"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/versionwatch/pkg/errors"
	"github.com/matzehuels/versionwatch/pkg/versions"
)

// maxExpansions bounds property substitution so that cyclic definitions
// terminate.
const maxExpansions = 10

var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// Project is the subset of a POM relevant to update checks.
type Project struct {
	GroupID    string
	ArtifactID string
	Version    string
	Packaging  string

	Dependencies         []versions.Dependency
	DependencyManagement []versions.Dependency
	Plugins              []versions.Plugin
	PluginManagement     []versions.Plugin

	Properties map[string]string
}

// Coordinate returns the project's own groupId:artifactId.
func (p *Project) Coordinate() versions.Coordinate {
	return versions.Coordinate{GroupID: p.GroupID, ArtifactID: p.ArtifactID}
}

// AllDependencies returns the declared and managed dependencies. A managed
// entry is dropped when the same dependency is also declared directly.
func (p *Project) AllDependencies() []versions.Dependency {
	out := append([]versions.Dependency(nil), p.Dependencies...)
	for _, m := range p.DependencyManagement {
		if !containsDependency(p.Dependencies, m) {
			out = append(out, m)
		}
	}
	return out
}

// AllPlugins returns the declared and managed plugins. A managed entry is
// dropped when a plugin with the same coordinate is declared directly.
func (p *Project) AllPlugins() []versions.Plugin {
	out := append([]versions.Plugin(nil), p.Plugins...)
	for _, m := range p.PluginManagement {
		declared := false
		for _, d := range p.Plugins {
			if d.Coordinate() == m.Coordinate() {
				declared = true
				break
			}
		}
		if !declared {
			out = append(out, m)
		}
	}
	return out
}

func containsDependency(deps []versions.Dependency, d versions.Dependency) bool {
	for _, x := range deps {
		if versions.CompareDependencies(x, d) == 0 {
			return true
		}
	}
	return false
}

// Read parses the POM at path.
func Read(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "pom not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return p, nil
}

// Parse parses POM content.
func Parse(data []byte) (*Project, error) {
	var doc pomProject
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	groupID := strings.TrimSpace(doc.GroupID)
	version := strings.TrimSpace(doc.Version)
	if doc.Parent != nil {
		if groupID == "" {
			groupID = strings.TrimSpace(doc.Parent.GroupID)
		}
		if version == "" {
			version = strings.TrimSpace(doc.Parent.Version)
		}
	}

	props := make(map[string]string, len(doc.Properties.Entries)+18)
	builtin := map[string]string{
		"project.groupId":    groupID,
		"project.artifactId": strings.TrimSpace(doc.ArtifactID),
		"project.version":    version,
	}
	if doc.Parent != nil {
		builtin["project.parent.groupId"] = strings.TrimSpace(doc.Parent.GroupID)
		builtin["project.parent.artifactId"] = strings.TrimSpace(doc.Parent.ArtifactID)
		builtin["project.parent.version"] = strings.TrimSpace(doc.Parent.Version)
	}
	for k, v := range builtin {
		props[k] = v
		// the deprecated pom.* and bare forms are still common
		props["pom."+strings.TrimPrefix(k, "project.")] = v
		props[strings.TrimPrefix(k, "project.")] = v
	}
	// declared properties win over the built-in ones
	for _, e := range doc.Properties.Entries {
		props[e.XMLName.Local] = strings.TrimSpace(e.Value)
	}

	r := resolver{props: props}
	p := &Project{
		GroupID:    groupID,
		ArtifactID: strings.TrimSpace(doc.ArtifactID),
		Version:    r.expand(version),
		Packaging:  strings.TrimSpace(doc.Packaging),
		Properties: props,
	}
	p.Dependencies = r.dependencies(doc.Dependencies)
	p.DependencyManagement = r.dependencies(doc.DependencyManagement.Dependencies)
	p.Plugins = r.plugins(doc.Build.Plugins)
	p.PluginManagement = r.plugins(doc.Build.PluginManagement.Plugins)
	return p, nil
}

type resolver struct {
	props map[string]string
}

// expand substitutes ${name} references. Unknown references are kept.
func (r resolver) expand(s string) string {
	s = strings.TrimSpace(s)
	for range maxExpansions {
		if !strings.Contains(s, "${") {
			return s
		}
		next := propertyRef.ReplaceAllStringFunc(s, func(ref string) string {
			name := ref[2 : len(ref)-1]
			if v, ok := r.props[name]; ok {
				return v
			}
			return ref
		})
		if next == s {
			return s
		}
		s = next
	}
	return s
}

func (r resolver) dependencies(in []pomDependency) []versions.Dependency {
	out := make([]versions.Dependency, 0, len(in))
	for _, d := range in {
		dep := versions.Dependency{
			GroupID:    r.expand(d.GroupID),
			ArtifactID: r.expand(d.ArtifactID),
			Version:    r.expand(d.Version),
			Type:       r.expand(d.Type),
			Classifier: r.expand(d.Classifier),
			Scope:      r.expand(d.Scope),
		}
		if dep.GroupID == "" || dep.ArtifactID == "" {
			continue
		}
		out = append(out, dep)
	}
	return out
}

func (r resolver) plugins(in []pomPlugin) []versions.Plugin {
	out := make([]versions.Plugin, 0, len(in))
	for _, p := range in {
		plugin := versions.Plugin{
			GroupID:      r.expand(p.GroupID),
			ArtifactID:   r.expand(p.ArtifactID),
			Version:      r.expand(p.Version),
			Dependencies: r.dependencies(p.Dependencies),
		}
		if plugin.ArtifactID == "" {
			continue
		}
		if plugin.GroupID == "" {
			plugin.GroupID = DefaultPluginGroup
		}
		out = append(out, plugin)
	}
	return out
}

// DefaultPluginGroup is assumed for plugins declared without a groupId.
const DefaultPluginGroup = "org.apache.maven.plugins"

type pomProject struct {
	XMLName              xml.Name        `xml:"project"`
	GroupID              string          `xml:"groupId"`
	ArtifactID           string          `xml:"artifactId"`
	Version              string          `xml:"version"`
	Packaging            string          `xml:"packaging"`
	Parent               *pomParent      `xml:"parent"`
	Properties           pomProperties   `xml:"properties"`
	Dependencies         []pomDependency `xml:"dependencies>dependency"`
	DependencyManagement struct {
		Dependencies []pomDependency `xml:"dependencies>dependency"`
	} `xml:"dependencyManagement"`
	Build struct {
		Plugins          []pomPlugin `xml:"plugins>plugin"`
		PluginManagement struct {
			Plugins []pomPlugin `xml:"plugins>plugin"`
		} `xml:"pluginManagement"`
	} `xml:"build"`
}

type pomParent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type pomProperties struct {
	Entries []pomProperty `xml:",any"`
}

type pomProperty struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Type       string `xml:"type"`
	Classifier string `xml:"classifier"`
	Scope      string `xml:"scope"`
}

type pomPlugin struct {
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
}
