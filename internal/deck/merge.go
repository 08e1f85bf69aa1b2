// Package deck merges generated slide content into presentation templates.
//
// Templates carry tokens of the form {{Title<N>}} and {{Body<N>}}, where N is
// the zero-based position of a SlideRecord in the merged sequence. Merge
// replaces tokens inside individual runs and never restructures the document,
// so every run keeps its formatting. A token split across runs is not
// recognized.
//
// Mismatches between template and content are not errors: tokens without a
// record stay in the output literally and records without tokens are
// dropped. Both are reported in Result.
package deck

import (
	"errors"
	"strings"

	"github.com/vamg1994/content-creation-vam/internal/pptx"
)

var (
	// ErrNoContent is returned when Merge is called without slide records.
	ErrNoContent = errors.New("no content to merge")

	// ErrNoDocument is returned when Merge is called with a nil document.
	ErrNoDocument = errors.New("no document to merge into")
)

// Result describes what a merge changed.
type Result struct {
	Document *pptx.Document

	// RunsChanged counts runs whose text was rewritten.
	RunsChanged int
	// Applied lists the keys that matched at least one token.
	Applied []PlaceholderKey
	// Unused lists indexes of records none of whose tokens were found.
	Unused []int
	// Unresolved lists tokens still present after the merge.
	Unresolved []PlaceholderKey
}

// Merge substitutes records into every matching token of doc, in place, and
// returns doc in the Result. It fails only when records is empty or doc is
// nil, before touching the document.
func Merge(doc *pptx.Document, records []SlideRecord) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrNoContent
	}
	if doc == nil {
		return nil, ErrNoDocument
	}

	table := newTokenTable(records)
	applied := make(map[PlaceholderKey]bool)
	res := &Result{Document: doc}

	for _, slide := range doc.Slides {
		for _, shape := range slide.Shapes {
			if shape.TextFrame == nil {
				continue
			}
			for _, para := range shape.TextFrame.Paragraphs {
				for _, run := range para.Runs {
					if table.apply(run, applied) {
						res.RunsChanged++
					}
				}
			}
		}
	}

	res.Applied = sortedKeys(applied)
	for i := range records {
		if !applied[PlaceholderKey{KindTitle, i}] && !applied[PlaceholderKey{KindBody, i}] {
			res.Unused = append(res.Unused, i)
		}
	}
	res.Unresolved = ScanPlaceholders(doc)
	return res, nil
}

// tokenTable maps every key of a record sequence to its replacement text.
type tokenTable struct {
	values   map[PlaceholderKey]string
	replacer *strings.Replacer
}

func newTokenTable(records []SlideRecord) *tokenTable {
	values := make(map[PlaceholderKey]string, 2*len(records))
	pairs := make([]string, 0, 4*len(records))
	for i, r := range records {
		title := PlaceholderKey{Kind: KindTitle, Index: i}
		body := PlaceholderKey{Kind: KindBody, Index: i}
		values[title] = r.Title
		values[body] = BodyText(r.Points)
		pairs = append(pairs, title.Token(), values[title], body.Token(), values[body])
	}
	return &tokenTable{values: values, replacer: strings.NewReplacer(pairs...)}
}

// apply rewrites run if it contains a known token. Replacement is literal and
// single-pass, so text inserted for one token is never scanned for another.
func (t *tokenTable) apply(run *pptx.Run, applied map[PlaceholderKey]bool) bool {
	text := run.Text()
	hit := false
	for _, k := range findPlaceholders(text) {
		if _, ok := t.values[k]; ok {
			applied[k] = true
			hit = true
		}
	}
	if !hit {
		return false
	}

	out := t.replacer.Replace(text)
	if out == text {
		return false
	}
	run.SetText(out)
	return true
}
