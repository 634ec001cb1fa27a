package types

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// CLI argument kinds.
const (
	CliArgumentTypeCommand   = "command"
	CliArgumentTypeExecution = "execution"
	CliArgumentTypeDefault   = CliArgumentTypeCommand
)

// CLI argument data types.
const (
	CliDataTypeStr     = "str"
	CliDataTypeInt     = "int"
	CliDataTypeFloat   = "float"
	CliDataTypeBool    = "bool"
	CliDataTypeList    = "list"
	CliDataTypeDefault = CliDataTypeStr
)

//go:embed schemas/cli_command.json
var cliCommandSchemaJSON string

//go:embed schemas/cli_argument.json
var cliArgumentSchemaJSON string

var (
	cliCommandSchema  = jsonschema.MustCompileString("cli_command.json", cliCommandSchemaJSON)
	cliArgumentSchema = jsonschema.MustCompileString("cli_argument.json", cliArgumentSchemaJSON)
)

// CliCommand declares a command registered on a CLI interface.
type CliCommand struct {
	InterfaceID string `json:"interface_id" yaml:"interface_id" mapstructure:"interface_id"`
	GroupID     string `json:"group_id" yaml:"group_id" mapstructure:"group_id"`
	CommandKey  string `json:"command_key" yaml:"command_key" mapstructure:"command_key"`
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Help        string `json:"help" yaml:"help" mapstructure:"help"`
}

// CliArgument declares an argument or flag of a CLI command.
type CliArgument struct {
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	InterfaceID string   `json:"interface_id" yaml:"interface_id" mapstructure:"interface_id"`
	Help        string   `json:"help" yaml:"help" mapstructure:"help"`
	ArgType     string   `json:"arg_type" yaml:"arg_type" mapstructure:"arg_type"`
	FeatureID   string   `json:"feature_id,omitempty" yaml:"feature_id,omitempty" mapstructure:"feature_id"`
	Flags       []string `json:"flags" yaml:"flags" mapstructure:"flags"`
	Type        string   `json:"type" yaml:"type" mapstructure:"type"`
	Required    *bool    `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	Default     string   `json:"default,omitempty" yaml:"default,omitempty" mapstructure:"default"`
	Positional  *bool    `json:"positional,omitempty" yaml:"positional,omitempty" mapstructure:"positional"`
	Choices     []string `json:"choices" yaml:"choices" mapstructure:"choices"`
	NArgs       *int     `json:"nargs,omitempty" yaml:"nargs,omitempty" mapstructure:"nargs"`
	Action      string   `json:"action,omitempty" yaml:"action,omitempty" mapstructure:"action"`
}

// NewCliCommand builds a CliCommand from a raw record. "description" is
// accepted in place of "help".
func NewCliCommand(raw map[string]any) (*CliCommand, error) {
	rec := withHelpAlias(raw)
	if err := validateSchema("cli command", cliCommandSchema, rec); err != nil {
		return nil, err
	}
	var cmd CliCommand
	if err := decodeRecord(rec, &cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}

// NewCliArgument builds a CliArgument from a raw record, applying defaults
// for arg_type, type, flags and choices.
func NewCliArgument(raw map[string]any) (*CliArgument, error) {
	rec := withHelpAlias(raw)
	setDefault(rec, "arg_type", CliArgumentTypeDefault)
	setDefault(rec, "type", CliDataTypeDefault)
	setDefault(rec, "flags", []any{})
	setDefault(rec, "choices", []any{})
	if err := validateSchema("cli argument", cliArgumentSchema, rec); err != nil {
		return nil, err
	}
	var arg CliArgument
	if err := decodeRecord(rec, &arg); err != nil {
		return nil, err
	}
	return &arg, nil
}

// withHelpAlias copies raw and renames "description" to "help" unless
// "help" is already present.
func withHelpAlias(raw map[string]any) map[string]any {
	rec := make(map[string]any, len(raw))
	for k, v := range raw {
		rec[k] = v
	}
	if desc, ok := rec["description"]; ok {
		if _, has := rec["help"]; !has {
			rec["help"] = desc
		}
		delete(rec, "description")
	}
	return rec
}

func setDefault(rec map[string]any, key string, value any) {
	if v, ok := rec[key]; !ok || v == nil {
		rec[key] = value
	}
}

// validateSchema checks rec against schema. The record is normalized through
// JSON first so the validator sees plain JSON values.
func validateSchema(object string, schema *jsonschema.Schema, rec map[string]any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return &ValidationError{Object: object, Problems: []string{err.Error()}}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Object: object, Problems: []string{err.Error()}}
	}
	if err := schema.Validate(doc); err != nil {
		return &ValidationError{Object: object, Problems: schemaProblems(err)}
	}
	return nil
}

// schemaProblems flattens a schema validation error into leaf messages
// prefixed by their instance location.
func schemaProblems(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}

func decodeRecord(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
