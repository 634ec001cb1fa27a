package types

import "sort"

// ErrorEntry is a user-facing error definition. Message holds the text per
// language code (e.g. "en_US").
type ErrorEntry struct {
	ID        string            `json:"id" yaml:"id" mapstructure:"id"`
	GroupID   string            `json:"group_id" yaml:"group_id" mapstructure:"group_id"`
	ErrorCode string            `json:"error_code" yaml:"error_code" mapstructure:"error_code"`
	ErrorName string            `json:"error_name,omitempty" yaml:"error_name,omitempty" mapstructure:"error_name"`
	Message   map[string]string `json:"message" yaml:"message" mapstructure:"message"`
}

// Ref returns the error entry's address.
func (e *ErrorEntry) Ref() Ref {
	return Ref{GroupID: e.GroupID, Key: e.ErrorCode}
}

// Languages returns the message language codes in sorted order.
func (e *ErrorEntry) Languages() []string {
	langs := make([]string, 0, len(e.Message))
	for lang := range e.Message {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Validate checks that at least one non-empty message is present.
func (e *ErrorEntry) Validate() error {
	v := validation{object: "error " + e.Ref().ID()}
	if len(e.Message) == 0 {
		v.addf("message requires at least one language")
	}
	for _, lang := range e.Languages() {
		if e.Message[lang] == "" {
			v.addf("message %q is empty", lang)
		}
	}
	return v.err()
}
