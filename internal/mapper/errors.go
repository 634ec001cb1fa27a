package mapper

import "github.com/mesh-intelligence/aiki/pkg/types"

// Errors maps types.ErrorEntry.
type Errors struct{}

var _ Mapper[types.ErrorEntry] = Errors{}

// Section implements Mapper.
func (Errors) Section() string { return "errors" }

// ToDomain implements Mapper.
func (Errors) ToDomain(rec Record, ref types.Ref) (*types.ErrorEntry, error) {
	in := withContext(rec, ref, "error_code")

	var e types.ErrorEntry
	if err := decode("error "+ref.ID(), in, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// ToStorage implements Mapper.
func (Errors) ToStorage(e *types.ErrorEntry) (Record, types.Ref, error) {
	ref, err := resolveRef(e.ID, e.Ref())
	if err != nil {
		return nil, types.Ref{}, err
	}
	if err := e.Validate(); err != nil {
		return nil, types.Ref{}, err
	}
	message := make(map[string]any, len(e.Message))
	for lang, text := range e.Message {
		message[lang] = text
	}
	rec := Record{"message": message}
	if e.ErrorName != "" {
		rec["error_name"] = e.ErrorName
	}
	return rec, ref, nil
}
