package yamlclient

import (
	"fmt"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

// StartFunc selects the sub-node a load starts from. It returns nil when the
// node is absent.
type StartFunc func(doc Document) (Record, error)

// CreateFunc builds a typed value from the selected node.
type CreateFunc[T any] func(node Record) (*T, error)

// Load reads the document at basePath, selects a node with start and passes
// it to create. An absent node is not an error: Load returns nil, nil.
// A missing document fails with ErrDocumentNotFound.
func Load[T any](c *Client, basePath string, create CreateFunc[T], start StartFunc) (*T, error) {
	doc, err := c.Read(basePath)
	if err != nil {
		return nil, err
	}
	node, err := start(doc)
	if err != nil {
		return nil, &types.DocumentError{Op: "load", Path: basePath, Kind: types.ErrParse, Err: err}
	}
	if node == nil {
		c.logger.Debug("node not found", "path", basePath)
		return nil, nil
	}
	return create(node)
}

// StartAt returns a StartFunc that walks segments from the document root.
// A missing segment yields nil; a non-mapping value on the way is an error.
func StartAt(segments ...string) StartFunc {
	return func(doc Document) (Record, error) {
		var cur any = doc
		for i, seg := range segments {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s is %T, want a mapping", JoinPath(segments[:i]...), cur)
			}
			next, ok := m[seg]
			if !ok || next == nil {
				return nil, nil
			}
			cur = next
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s is %T, want a mapping", JoinPath(segments...), cur)
		}
		return m, nil
	}
}
