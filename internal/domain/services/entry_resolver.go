package services

import (
	"reflect"
	"sort"

	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/issues"
)

// EntryTypeResolver infers the variant of an untagged entry from the keys
// it uses.
//
// A variant's characteristic attributes are its field names minus every
// field name that appears in more than one variant. Variants are tried in
// declaration order and the first one whose characteristic attributes
// intersect the record's keys wins. Bare strings are always Text.
type EntryTypeResolver struct {
	characteristic map[entities.EntryType]map[string]struct{}
}

// NewEntryTypeResolver builds the characteristic attribute sets from the
// entry struct definitions.
func NewEntryTypeResolver() *EntryTypeResolver {
	fields := make(map[entities.EntryType][]string)
	count := make(map[string]int)
	for _, t := range entities.EntryTypes() {
		e := t.New()
		if e == nil {
			continue
		}
		names := FieldNames(reflect.TypeOf(e))
		fields[t] = names
		for _, n := range names {
			count[n]++
		}
	}

	r := &EntryTypeResolver{characteristic: make(map[entities.EntryType]map[string]struct{})}
	for t, names := range fields {
		set := make(map[string]struct{})
		for _, n := range names {
			if count[n] == 1 {
				set[n] = struct{}{}
			}
		}
		r.characteristic[t] = set
	}
	return r
}

// CharacteristicAttributes returns the sorted characteristic attributes of t.
func (r *EntryTypeResolver) CharacteristicAttributes(t entities.EntryType) []string {
	out := make([]string, 0, len(r.characteristic[t]))
	for n := range r.characteristic[t] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the variant of raw. It fails with
// *issues.AmbiguousEntryError when no variant matches; the error's
// Location is left for the caller to fill in.
func (r *EntryTypeResolver) Resolve(raw any) (entities.EntryType, error) {
	switch v := raw.(type) {
	case string:
		return entities.EntryTypeText, nil
	case map[string]any:
		for _, t := range entities.EntryTypes() {
			set, ok := r.characteristic[t]
			if !ok {
				continue
			}
			for key := range v {
				if _, hit := set[key]; hit {
					return t, nil
				}
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return 0, &issues.AmbiguousEntryError{Keys: keys}
	default:
		return 0, &issues.AmbiguousEntryError{}
	}
}
