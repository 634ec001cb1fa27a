// Package types defines the Repository interface, the Feature and ErrorEntry
// entities, container attribute declarations, CLI models, configuration, and
// the standard error types for aiki.
//
// Components outside this package (the YAML document client, the entity
// mappers, the repositories and the container assembler) exchange only the
// types declared here.
package types
