// Package yamlclient reads and writes nested YAML documents. It owns all
// file I/O for the YAML repositories: whole-document reads, path-scoped
// loads, and path-scoped saves persisted with an atomic
// temp-file/fsync/rename write.
package yamlclient

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

// Document is the full content of a backing file.
type Document = map[string]any

// Record is a single stored entity: a mapping of field names to values.
type Record = map[string]any

// PathSeparator separates segments of a save path.
const PathSeparator = "."

// ErrInvalidPath is returned for an empty save path or an empty segment.
var ErrInvalidPath = errors.New("invalid document path")

// Client reads and writes YAML documents on a filesystem.
type Client struct {
	fs     afero.Fs
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(c *Client) { c.fs = fsys }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{fs: afero.NewOsFs(), logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fs returns the client's filesystem.
func (c *Client) Fs() afero.Fs {
	return c.fs
}

// Read parses the document at path. A missing file yields a DocumentError
// wrapping ErrDocumentNotFound; content that is not a YAML mapping yields
// one wrapping ErrParse. An empty file is an empty document.
func (c *Client) Read(path string) (Document, error) {
	raw, err := afero.ReadFile(c.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &types.DocumentError{Op: "read", Path: path, Kind: types.ErrDocumentNotFound}
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, &types.DocumentError{Op: "read", Path: path, Kind: types.ErrParse, Err: err}
	}
	root, err := fromNode(&node)
	if err != nil {
		return nil, &types.DocumentError{Op: "read", Path: path, Kind: types.ErrParse, Err: err}
	}
	if root == nil {
		return Document{}, nil
	}
	doc, ok := root.(map[string]any)
	if !ok {
		return nil, &types.DocumentError{
			Op:   "read",
			Path: path,
			Kind: types.ErrParse,
			Err:  fmt.Errorf("root is %T, want a mapping", root),
		}
	}
	return doc, nil
}

// Save writes data at dataSavePath inside the document at basePath. The
// document is created if absent and missing intermediate mappings are
// created along the path. The file is rewritten atomically.
func (c *Client) Save(basePath string, data Record, dataSavePath string) error {
	segments, err := SplitPath(dataSavePath)
	if err != nil {
		return err
	}

	doc, err := c.Read(basePath)
	if errors.Is(err, types.ErrDocumentNotFound) {
		doc = Document{}
	} else if err != nil {
		return err
	}

	if err := setAt(doc, segments, data); err != nil {
		return &types.DocumentError{Op: "save", Path: basePath, Kind: types.ErrParse, Err: err}
	}
	if err := c.Write(basePath, doc); err != nil {
		return err
	}
	c.logger.Debug("document saved", "path", basePath, "at", dataSavePath)
	return nil
}

// Write replaces the document at path atomically.
func (c *Client) Write(path string, doc Document) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return c.writeAtomic(path, buf.Bytes())
}

// SplitPath splits a dot-separated document path into segments.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segments := strings.Split(path, PathSeparator)
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, path)
		}
	}
	return segments, nil
}

// JoinPath joins segments into a dot-separated document path.
func JoinPath(segments ...string) string {
	return strings.Join(segments, PathSeparator)
}

// setAt walks segments from doc, creating empty mappings where a segment is
// missing, and stores data under the last segment.
func setAt(doc Document, segments []string, data Record) error {
	cur := doc
	for i, seg := range segments[:len(segments)-1] {
		next, ok := cur[seg]
		if !ok || next == nil {
			m := map[string]any{}
			cur[seg] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is %T, want a mapping", JoinPath(segments[:i+1]...), next)
		}
		cur = m
	}
	cur[segments[len(segments)-1]] = data
	return nil
}

// writeAtomic writes data to path using the temp-file, fsync, rename
// pattern. On any failure the temp file is removed and the previous content
// of path is left untouched.
func (c *Client) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := c.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	mode := os.FileMode(0o644)
	if info, err := c.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(c.fs, dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		c.fs.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		c.fs.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		c.fs.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := c.fs.Chmod(tmpName, mode); err != nil {
		c.fs.Remove(tmpName)
		return fmt.Errorf("setting mode on temp file: %w", err)
	}
	if err := c.fs.Rename(tmpName, path); err != nil {
		c.fs.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// fromNode converts a parsed node into plain Go values. Mapping keys keep
// their literal text, so "007" and "0x1F" stay as written instead of being
// resolved to integers. Aliases are expanded and merge keys applied.
func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		return fromMapping(n)
	case yaml.SequenceNode:
		seq := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := fromNode(item)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func fromMapping(n *yaml.Node) (map[string]any, error) {
	m := make(map[string]any, len(n.Content)/2)
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Kind == yaml.AliasNode {
			key = key.Alias
		}
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
		}
		if key.ShortTag() == "!!merge" {
			merges = append(merges, value)
			continue
		}
		v, err := fromNode(value)
		if err != nil {
			return nil, err
		}
		m[key.Value] = v
	}

	// Explicit keys win over merged ones; earlier merge sources win over later.
	for _, src := range merges {
		if src.Kind == yaml.AliasNode {
			src = src.Alias
		}
		sources := []*yaml.Node{src}
		if src.Kind == yaml.SequenceNode {
			sources = src.Content
		}
		for _, s := range sources {
			v, err := fromNode(s)
			if err != nil {
				return nil, err
			}
			merged, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("line %d: merge value is not a mapping", s.Line)
			}
			for k, val := range merged {
				if _, has := m[k]; !has {
					m[k] = val
				}
			}
		}
	}
	return m, nil
}
