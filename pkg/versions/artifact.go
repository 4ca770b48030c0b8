package versions

import (
	"cmp"
	"strings"
)

// Coordinate identifies an artifact independent of its version.
type Coordinate struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
}

// String returns "groupId:artifactId".
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID
}

// Dependency is a declared dependency. Version may be blank or a range.
type Dependency struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version,omitempty"`
	Type       string `json:"type,omitempty"`
	Classifier string `json:"classifier,omitempty"`
	Scope      string `json:"scope,omitempty"`
}

// Coordinate returns the dependency's groupId:artifactId.
func (d Dependency) Coordinate() Coordinate {
	return Coordinate{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

// String returns "groupId:artifactId:version", with type and classifier
// appended when set.
func (d Dependency) String() string {
	parts := []string{d.GroupID, d.ArtifactID, d.Version}
	if d.Type != "" || d.Classifier != "" {
		parts = append(parts, d.Type)
	}
	if d.Classifier != "" {
		parts = append(parts, d.Classifier)
	}
	return strings.Join(parts, ":")
}

// Plugin is a declared build plugin together with the dependencies declared
// inside it.
type Plugin struct {
	GroupID      string       `json:"group_id"`
	ArtifactID   string       `json:"artifact_id"`
	Version      string       `json:"version,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// Coordinate returns the plugin's groupId:artifactId.
func (p Plugin) Coordinate() Coordinate {
	return Coordinate{GroupID: p.GroupID, ArtifactID: p.ArtifactID}
}

// String returns "groupId:artifactId:version".
func (p Plugin) String() string {
	return p.GroupID + ":" + p.ArtifactID + ":" + p.Version
}

// CompareDependencies orders dependencies by groupId, artifactId, version,
// type and classifier.
func CompareDependencies(a, b Dependency) int {
	return cmp.Or(
		strings.Compare(a.GroupID, b.GroupID),
		strings.Compare(a.ArtifactID, b.ArtifactID),
		strings.Compare(a.Version, b.Version),
		strings.Compare(a.Type, b.Type),
		strings.Compare(a.Classifier, b.Classifier),
	)
}

// ComparePlugins orders plugins by groupId, artifactId and version.
func ComparePlugins(a, b Plugin) int {
	return cmp.Or(
		strings.Compare(a.GroupID, b.GroupID),
		strings.Compare(a.ArtifactID, b.ArtifactID),
		strings.Compare(a.Version, b.Version),
	)
}
