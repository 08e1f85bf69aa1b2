package deck

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vamg1994/content-creation-vam/internal/pptx"
)

// PlaceholderKind is the role of a placeholder token on a content slide.
type PlaceholderKind int

const (
	KindTitle PlaceholderKind = iota
	KindBody
)

func (k PlaceholderKind) String() string {
	switch k {
	case KindTitle:
		return "Title"
	case KindBody:
		return "Body"
	default:
		return "PlaceholderKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// PlaceholderKey identifies one token: the slide record it takes content from
// and which part of the record.
type PlaceholderKey struct {
	Kind  PlaceholderKind
	Index int
}

// Token renders the key in template wire format, e.g. "{{Title0}}".
func (k PlaceholderKey) Token() string {
	return "{{" + k.Kind.String() + strconv.Itoa(k.Index) + "}}"
}

func (k PlaceholderKey) String() string { return k.Token() }

// tokenRe matches wire-format tokens: no whitespace, no leading zeros.
var tokenRe = regexp.MustCompile(`\{\{(Title|Body)(0|[1-9][0-9]*)\}\}`)

// ParsePlaceholder parses a single wire-format token.
func ParsePlaceholder(token string) (PlaceholderKey, bool) {
	m := tokenRe.FindStringSubmatch(token)
	if m == nil || m[0] != token {
		return PlaceholderKey{}, false
	}
	return keyFromMatch(m[1], m[2])
}

func keyFromMatch(kind, index string) (PlaceholderKey, bool) {
	i, err := strconv.Atoi(index)
	if err != nil {
		return PlaceholderKey{}, false
	}
	k := PlaceholderKey{Kind: KindTitle, Index: i}
	if kind == "Body" {
		k.Kind = KindBody
	}
	return k, true
}

// findPlaceholders returns the keys of every token in s, in order of
// appearance, including repeats.
func findPlaceholders(s string) []PlaceholderKey {
	if !strings.Contains(s, "{{") {
		return nil
	}
	var keys []PlaceholderKey
	for _, m := range tokenRe.FindAllStringSubmatch(s, -1) {
		if k, ok := keyFromMatch(m[1], m[2]); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// ScanPlaceholders returns the distinct placeholder keys present in the
// document's runs, sorted by index then kind. Tokens split across runs are
// not found, matching what Merge can replace.
func ScanPlaceholders(doc *pptx.Document) []PlaceholderKey {
	if doc == nil {
		return nil
	}
	seen := make(map[PlaceholderKey]bool)
	for _, r := range doc.Runs() {
		for _, k := range findPlaceholders(r.Text()) {
			seen[k] = true
		}
	}
	return sortedKeys(seen)
}

// TitleSlots returns the number of distinct {{Title<N>}} tokens in the
// document.
func TitleSlots(doc *pptx.Document) int {
	n := 0
	for _, k := range ScanPlaceholders(doc) {
		if k.Kind == KindTitle {
			n++
		}
	}
	return n
}

// ContentSlots is the number of content slides in doc when the first
// reserved slides are not content (cover, intro). It never goes below zero.
func ContentSlots(doc *pptx.Document, reserved int) int {
	if doc == nil {
		return 0
	}
	n := len(doc.Slides) - reserved
	if n < 0 {
		return 0
	}
	return n
}

func sortedKeys(set map[PlaceholderKey]bool) []PlaceholderKey {
	keys := make([]PlaceholderKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Index != keys[j].Index {
			return keys[i].Index < keys[j].Index
		}
		return keys[i].Kind < keys[j].Kind
	})
	return keys
}
