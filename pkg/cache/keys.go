package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digestKey returns "<kind>:<sha256 of the JSON-encoded parts>". Encoding
// the parts as a JSON array keeps ("a:b", "c") and ("a", "b:c") apart.
func digestKey(kind string, parts ...string) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// Keyer names cache entries. Every key starts with its kind ("http",
// "metadata", "rules"), which the file backend uses as a directory.
type Keyer interface {
	// HTTPKey names a response fetched by a client with the given prefix.
	HTTPKey(namespace, key string) string
	// MetadataKey names the version list of one artifact in one repository.
	MetadataKey(repository, groupID, artifactID string) string
	// RuleSetKey names a rule set fetched from uri.
	RuleSetKey(uri string) string
}

// DefaultKeyer is the Keyer used unless a scope is configured.
type DefaultKeyer struct{}

func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>" unhashed, so entries stay
// readable in redis-cli.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) MetadataKey(repository, groupID, artifactID string) string {
	return digestKey("metadata", repository, groupID, artifactID)
}

func (DefaultKeyer) RuleSetKey(uri string) string {
	return digestKey("rules", uri)
}

// ScopedKeyer prefixes every key of another Keyer. Installations that share
// a Redis or MongoDB cache but reach repositories with different
// credentials set [cache] scope so that they never read each other's
// entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) MetadataKey(repository, groupID, artifactID string) string {
	return k.prefix + k.inner.MetadataKey(repository, groupID, artifactID)
}

func (k *ScopedKeyer) RuleSetKey(uri string) string {
	return k.prefix + k.inner.RuleSetKey(uri)
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = (*ScopedKeyer)(nil)
)
