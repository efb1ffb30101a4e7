package domain

import (
	"encoding/json"
	"strings"
)

// NotAvailable is shown in place of a city or airline name that could not be translated.
const NotAvailable = "N.A"

// Name is the result of a reference lookup. Known is false when Value is the NotAvailable sentinel.
type Name struct {
	Value string
	Known bool
}

func (n Name) String() string { return n.Value }

// ReferenceEntry is one element of the cities/airlines reference lists.
type ReferenceEntry struct {
	Code             string `json:"code"`
	NameTranslations struct {
		En string `json:"en"`
	} `json:"name_translations"`
}

// ReferenceMap is an immutable code -> display name mapping.
type ReferenceMap struct {
	names map[string]string
}

// NewReferenceMap copies m, dropping entries with a blank code or name.
func NewReferenceMap(m map[string]string) ReferenceMap {
	names := make(map[string]string, len(m))
	for code, name := range m {
		code = strings.TrimSpace(code)
		if code == "" || strings.TrimSpace(name) == "" {
			continue
		}
		names[code] = name
	}
	return ReferenceMap{names: names}
}

// ReduceReference builds a ReferenceMap from a reference list using the English names.
// Entries without an English name never replace an earlier name for the same code.
func ReduceReference(entries []ReferenceEntry) ReferenceMap {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.NameTranslations.En) == "" {
			continue
		}
		m[e.Code] = e.NameTranslations.En
	}
	return NewReferenceMap(m)
}

// Lookup never fails: unknown codes yield the NotAvailable sentinel.
func (r ReferenceMap) Lookup(code string) Name {
	if name, ok := r.names[code]; ok {
		return Name{Value: name, Known: true}
	}
	return Name{Value: NotAvailable}
}

func (r ReferenceMap) Len() int { return len(r.names) }

// Entries returns a copy of the underlying mapping.
func (r ReferenceMap) Entries() map[string]string {
	out := make(map[string]string, len(r.names))
	for k, v := range r.names {
		out[k] = v
	}
	return out
}

func (r ReferenceMap) MarshalJSON() ([]byte, error) {
	if r.names == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.names)
}

func (r *ReferenceMap) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*r = NewReferenceMap(m)
	return nil
}
