package container

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/mesh-intelligence/aiki/internal/yamlclient"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

// DeclarationsKey is the top-level document key holding the attribute list.
const DeclarationsKey = "container"

// LoadDeclarations reads the attribute list stored under DeclarationsKey in
// the YAML document at path.
func LoadDeclarations(client *yamlclient.Client, path string) ([]types.ContainerAttribute, error) {
	doc, err := client.Read(path)
	if err != nil {
		return nil, err
	}
	raw, ok := doc[DeclarationsKey]
	if !ok {
		return nil, &types.DocumentError{
			Op:   "load declarations",
			Path: path,
			Kind: types.ErrParse,
			Err:  fmt.Errorf("missing %q list", DeclarationsKey),
		}
	}

	var attrs []types.ContainerAttribute
	if err := mapstructure.Decode(raw, &attrs); err != nil {
		return nil, &types.DocumentError{Op: "load declarations", Path: path, Kind: types.ErrParse, Err: err}
	}
	return attrs, nil
}
