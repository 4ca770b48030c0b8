package rules

import (
	"bytes"
	"context"
	"embed"
	"encoding/xml"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/versionwatch/pkg/errors"
	"github.com/matzehuels/versionwatch/pkg/integrations"
)

//go:embed builtin/*
var builtin embed.FS

const classpathPrefix = "classpath:"

// Format is a rule-set document format.
type Format int

const (
	// FormatXML is the Maven versions rules document (<ruleset>).
	FormatXML Format = iota
	// FormatTOML is the native TOML format.
	FormatTOML
)

// FormatFor picks the format from a file name or URI. Anything that does not
// end in .toml is treated as XML.
func FormatFor(name string) Format {
	if u, err := url.Parse(name); err == nil && u.Path != "" {
		name = u.Path
	}
	if strings.EqualFold(path.Ext(name), ".toml") {
		return FormatTOML
	}
	return FormatXML
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Client fetches http and https URIs. A client without cache is created
	// when nil.
	Client *integrations.Client

	// Refresh bypasses cached remote rule sets.
	Refresh bool

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// Load reads and compiles the rule set named by uri.
//
// Supported URIs:
//   - "" (or blank): an empty rule set
//   - classpath:/name: a rule set built into the binary (see [Builtin])
//   - http:// and https://: fetched through the integrations client
//   - file:// or a plain path: read from disk
//
// Any failure is returned as [errors.ErrCodeConfigLoad], or
// [errors.ErrCodeInvalidRule] when the document loads but does not validate.
func Load(ctx context.Context, uri string, opts LoadOptions) (*RuleSet, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	uri = strings.TrimSpace(uri)
	if uri == "" {
		logger.Debug("no rules configured")
		return Empty(), nil
	}

	data, err := read(ctx, uri, opts)
	if err != nil {
		return nil, err
	}

	rs, err := Parse(data, FormatFor(uri))
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeConfigLoad
		}
		return nil, errors.Wrap(code, err, "load rules from %s", uri)
	}
	logger.Debug("loaded rules", "uri", uri, "rules", len(rs.Rules), "ignores", len(rs.IgnoreVersions))
	return rs, nil
}

// Parse decodes and compiles a rule-set document.
func Parse(data []byte, format Format) (*RuleSet, error) {
	var rs RuleSet
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&rs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, err, "invalid TOML rule set")
		}
	default:
		if err := xml.Unmarshal(data, &rs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, err, "invalid XML rule set")
		}
	}
	if err := rs.Compile(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Builtin lists the names of the rule sets built into the binary. Each can be
// loaded as "classpath:/<name>".
func Builtin() []string {
	entries, err := fs.ReadDir(builtin, "builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func read(ctx context.Context, uri string, opts LoadOptions) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, classpathPrefix):
		name := strings.TrimLeft(strings.TrimPrefix(uri, classpathPrefix), "/")
		data, err := builtin.ReadFile(path.Join("builtin", name))
		if err != nil {
			return nil, errors.New(errors.ErrCodeConfigLoad, "resource not found: %s", uri)
		}
		return data, nil

	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		client := opts.Client
		if client == nil {
			client = integrations.NewClient(nil, "rules", time.Hour, nil)
		}
		body, err := integrations.Cached(ctx, client, client.Keyer().RuleSetKey(uri), opts.Refresh, func(ctx context.Context) (string, error) {
			return client.GetText(ctx, uri)
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, err, "fetch rules from %s", uri)
		}
		return []byte(body), nil

	default:
		p := uri
		if strings.HasPrefix(uri, "file://") {
			u, err := url.Parse(uri)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeConfigLoad, err, "invalid rules uri %s", uri)
			}
			p = filepath.FromSlash(u.Path)
		}
		data, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeConfigLoad, "rules file not found: %s", p)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, err, "read rules file %s", p)
		}
		return data, nil
	}
}
