package i18n

import "strings"

// Variants holds per-language overrides: language -> field -> text.
type Variants map[Language]map[Field]string

func (v Variants) Get(l Language, f Field) string {
	if v == nil {
		return ""
	}
	return v[l][f]
}

// Set stores text for (l, f). Blank text removes the variant so an empty
// form field never shadows the canonical value.
func (v Variants) Set(l Language, f Field, text string) {
	if strings.TrimSpace(text) == "" {
		if m, ok := v[l]; ok {
			delete(m, f)
			if len(m) == 0 {
				delete(v, l)
			}
		}
		return
	}
	m, ok := v[l]
	if !ok {
		m = map[Field]string{}
		v[l] = m
	}
	m[f] = text
}

func (v Variants) Clone() Variants {
	out := Variants{}
	for l, m := range v {
		for f, s := range m {
			out.Set(l, f, s)
		}
	}
	return out
}

// Resolve returns the variant of field f for language l when it is present
// and non-blank, the canonical value otherwise.
func Resolve(canonical string, v Variants, l Language, f Field) string {
	if l == Canonical {
		return canonical
	}
	if s := v.Get(l, f); strings.TrimSpace(s) != "" {
		return s
	}
	return canonical
}

// FromSuffixed collects "<field>_<lang>" entries of a flat payload into
// Variants. Unknown keys and non-string values are ignored.
func FromSuffixed(raw map[string]any, fields []Field) Variants {
	out := Variants{}
	for _, l := range Translated() {
		for _, f := range fields {
			if s, ok := raw[SuffixedKey(f, l)].(string); ok {
				out.Set(l, f, s)
			}
		}
	}
	return out
}

// Merge copies every variant of other into v, overwriting.
func (v Variants) Merge(other Variants) {
	for l, m := range other {
		for f, s := range m {
			v.Set(l, f, s)
		}
	}
}
