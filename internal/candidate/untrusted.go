// Package candidate turns loosely structured résumé extractions into canonical candidate records.
package candidate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Untrusted is a loosely structured mapping as produced by an AI extraction or a
// hand-written JSON file. Keys may use any casing or separator style and values
// may be missing, null or of the wrong type. All reads go through accessors that
// return a usable default instead of failing.
type Untrusted map[string]any

// nullWords are string values that mean "no value".
var nullWords = map[string]bool{"null": true, "none": true, "nil": true, "n/a": true, "na": true, "undefined": true}

// ParseUntrusted decodes a JSON object. Anything other than an object is an error,
// and the returned mapping is always non-nil.
func ParseUntrusted(data []byte) (Untrusted, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Untrusted{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	u, ok := asUntrusted(raw)
	if !ok {
		return Untrusted{}, fmt.Errorf("expected a JSON object, got %T", raw)
	}
	return u, nil
}

// normalizeKey folds "Candidate_Name", "candidate-name" and "candidateName" to "candidatename".
func normalizeKey(k string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(k) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Get returns the first non-nil value stored under any of the given key aliases.
// Aliases are tried in order; keys match regardless of casing and separators.
func (u Untrusted) Get(aliases ...string) (any, bool) {
	if len(u) == 0 {
		return nil, false
	}
	for _, alias := range aliases {
		if v, ok := u[alias]; ok && v != nil {
			return v, true
		}
		want := normalizeKey(alias)
		for _, k := range sortedKeys(u) {
			if normalizeKey(k) == want && u[k] != nil {
				return u[k], true
			}
		}
	}
	return nil, false
}

// String returns the value under the first matching alias as a trimmed string, or "".
func (u Untrusted) String(aliases ...string) string {
	v, ok := u.Get(aliases...)
	if !ok {
		return ""
	}
	return asString(v)
}

// List returns the value under the first matching alias as a list.
// A single non-list value becomes a one-element list; a missing value yields nil.
func (u Untrusted) List(aliases ...string) []any {
	v, ok := u.Get(aliases...)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	default:
		return []any{t}
	}
}

// Slice returns the value under the first matching alias only if it is a list.
// Legacy shapes such as a single free-text string yield nil.
func (u Untrusted) Slice(aliases ...string) []any {
	v, ok := u.Get(aliases...)
	if !ok {
		return nil
	}
	switch v.(type) {
	case []any, []string, []map[string]any:
		return u.List(aliases...)
	default:
		return nil
	}
}

// Bool reports the boolean under the first matching alias and whether one was found.
// Strings such as "yes", "true" and "found" count as true.
func (u Untrusted) Bool(aliases ...string) (value bool, found bool) {
	v, ok := u.Get(aliases...)
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "found", "1":
			return true, true
		case "false", "no", "n", "not found", "missing", "0":
			return false, true
		}
	}
	return false, false
}

// Clone returns a shallow copy of the mapping.
func (u Untrusted) Clone() Untrusted {
	out := make(Untrusted, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// Set stores value under aliases[0], removing any key that matches one of the aliases.
func (u Untrusted) Set(value any, aliases ...string) {
	if len(aliases) == 0 {
		return
	}
	wanted := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		wanted[normalizeKey(a)] = true
	}
	for k := range u {
		if wanted[normalizeKey(k)] {
			delete(u, k)
		}
	}
	u[aliases[0]] = value
}

// asUntrusted accepts the map shapes encoding/json and callers commonly produce.
func asUntrusted(v any) (Untrusted, bool) {
	switch t := v.(type) {
	case Untrusted:
		return t, true
	case map[string]any:
		return Untrusted(t), true
	case map[string]string:
		out := make(Untrusted, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// asString coerces scalars to text. Maps and other composite values become "".
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(t)
		if nullWords[strings.ToLower(s)] {
			return ""
		}
		return s
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := asString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// stringList coerces a list of scalars (or a newline separated string) into
// trimmed, non-empty strings with any leading bullet glyph removed.
func stringList(items []any) []string {
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.Contains(s, "\n") {
			for _, line := range strings.Split(s, "\n") {
				if line = stripBullet(line); line != "" {
					out = append(out, line)
				}
			}
			continue
		}
		if _, isMap := item.(map[string]any); isMap {
			continue
		}
		if s := stripBullet(asString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stripBullet(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"•", "·", "▪", "●", "- ", "* ", "– "} {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(s, prefix))
		}
	}
	return s
}

func sortedKeys(u Untrusted) []string {
	keys := make([]string, 0, len(u))
	for k := range u {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
