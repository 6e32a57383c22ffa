// Package cssstyle builds inline CSS from camelCase style maps.
package cssstyle

import (
	"sort"
	"strings"
)

// Style maps camelCase (or already hyphenated) property names to values.
// Empty values are ignored on serialization.
type Style map[string]string

// Merge returns a new style holding every property of styles. Keys are
// hyphenated, so objectFit and object-fit name the same property, and later
// styles win. Empty values never override.
func Merge(styles ...Style) Style {
	out := Style{}
	for _, s := range styles {
		for _, k := range sortedKeys(s) {
			if v := s[k]; v != "" {
				out[Hyphenate(k)] = v
			}
		}
	}
	return out
}

// Set sets a property when value is non-empty and deletes it otherwise.
func (s Style) Set(name, value string) Style {
	if value == "" {
		delete(s, name)
		return s
	}
	s[name] = value
	return s
}

// CSS serializes s as a declaration list ("a: b; c: d;"), properties
// hyphenated and sorted by name. When two keys hyphenate to the same
// property, the camelCase one wins. It returns "" when s has no non-empty
// property.
func (s Style) CSS() string {
	names := make([]string, 0, len(s))
	byName := make(map[string]string, len(s))
	for _, k := range sortedKeys(s) {
		v := s[k]
		if v == "" {
			continue
		}
		h := Hyphenate(k)
		if _, dup := byName[h]; !dup {
			names = append(names, h)
		}
		byName[h] = v
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)

	var b strings.Builder
	for i, n := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n)
		b.WriteString(": ")
		b.WriteString(byName[n])
		b.WriteByte(';')
	}
	return b.String()
}

func sortedKeys(s Style) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Hyphenate converts a camelCase property name to its CSS form:
// backgroundColor becomes background-color and msTransform becomes
// -ms-transform. Names already containing a hyphen are lowercased only.
func Hyphenate(name string) string {
	if strings.Contains(name, "-") {
		return strings.ToLower(name)
	}
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if strings.HasPrefix(out, "ms-") {
		out = "-" + out
	}
	return out
}

// Parse reads a declaration list back into a Style. Property names are kept
// hyphenated.
func Parse(css string) Style {
	out := Style{}
	for _, decl := range strings.Split(css, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name != "" && value != "" {
			out[strings.ToLower(name)] = value
		}
	}
	return out
}
