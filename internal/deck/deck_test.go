package deck_test

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vamg1994/content-creation-vam/internal/deck"
	"github.com/vamg1994/content-creation-vam/internal/pptx"
	"github.com/vamg1994/content-creation-vam/internal/pptx/pptxtest"
)

const styled = `<a:rPr lang="en-US" sz="3600" b="1"><a:solidFill><a:srgbClr val="1F497D"/></a:solidFill><a:latin typeface="Montserrat"/></a:rPr>`

// tokenDeck builds a document with one slide per token pair, each slide
// holding a title shape and a body shape.
func tokenDeck(t pptxtest.TB, pairs int) *pptx.Document {
	t.Helper()
	slides := []string{pptxtest.Slide(pptxtest.TextShape(2, "Cover", []pptxtest.Run{pptxtest.R("Cover")}))}
	for i := 0; i < pairs; i++ {
		slides = append(slides, pptxtest.Slide(
			pptxtest.TextShape(2, "Title", []pptxtest.Run{{Text: fmt.Sprintf("{{Title%d}}", i), RPr: styled}}),
			pptxtest.TextShape(3, "Body", []pptxtest.Run{pptxtest.R(fmt.Sprintf("{{Body%d}}", i))}),
		))
	}
	doc, err := pptx.Parse(pptxtest.Package(t, slides...))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func records(n int) []deck.SlideRecord {
	out := make([]deck.SlideRecord, n)
	for i := range out {
		out[i] = deck.SlideRecord{Title: "title-" + strconv.Itoa(i), Points: []string{"p" + strconv.Itoa(i)}}
	}
	return out
}

type shape struct{ paragraphs, runs int }

func structure(doc *pptx.Document) [][]shape {
	var out [][]shape
	for _, s := range doc.Slides {
		var shapes []shape
		for _, sh := range s.Shapes {
			var c shape
			if sh.TextFrame != nil {
				c.paragraphs = len(sh.TextFrame.Paragraphs)
				for _, p := range sh.TextFrame.Paragraphs {
					c.runs += len(p.Runs)
				}
			}
			shapes = append(shapes, c)
		}
		out = append(out, shapes)
	}
	return out
}

func TestPlaceholderKey_Token(t *testing.T) {
	assert.Equal(t, "{{Title0}}", deck.PlaceholderKey{Kind: deck.KindTitle, Index: 0}.Token())
	assert.Equal(t, "{{Body12}}", deck.PlaceholderKey{Kind: deck.KindBody, Index: 12}.Token())
}

func TestParsePlaceholder(t *testing.T) {
	tests := []struct {
		token string
		want  deck.PlaceholderKey
		ok    bool
	}{
		{token: "{{Title0}}", want: deck.PlaceholderKey{Kind: deck.KindTitle, Index: 0}, ok: true},
		{token: "{{Body3}}", want: deck.PlaceholderKey{Kind: deck.KindBody, Index: 3}, ok: true},
		{token: "{{Title10}}", want: deck.PlaceholderKey{Kind: deck.KindTitle, Index: 10}, ok: true},
		{token: "{{Title01}}"},
		{token: "{{ Title0 }}"},
		{token: "{{title0}}"},
		{token: "{Title0}"},
		{token: "{{Title-1}}"},
		{token: "{{Title}}"},
		{token: "x{{Title0}}"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := deck.ParsePlaceholder(tt.token)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBodyText(t *testing.T) {
	assert.Equal(t, "• a\n• b", deck.BodyText([]string{"a", "b"}))
	assert.Equal(t, "• c", deck.BodyText([]string{"c"}))
}

func TestClean(t *testing.T) {
	in := []deck.SlideRecord{
		{Title: "  Keep  ", Points: []string{" one ", "", "   ", "two"}},
		{Title: "", Points: []string{"orphan"}},
		{Title: "No points", Points: []string{" ", ""}},
		{Title: "Nil points"},
	}
	got := deck.Clean(in)
	assert.Equal(t, []deck.SlideRecord{{Title: "Keep", Points: []string{"one", "two"}}}, got)
}

func TestMerge_NoContent(t *testing.T) {
	doc := tokenDeck(t, 1)
	_, err := deck.Merge(doc, nil)
	require.ErrorIs(t, err, deck.ErrNoContent)
	assert.Equal(t, "{{Title0}}", doc.Slides[1].Runs()[0].Text())
	assert.False(t, doc.Slides[1].Changed())

	_, err = deck.Merge(nil, records(1))
	require.ErrorIs(t, err, deck.ErrNoDocument)
}

func TestMerge_Skeleton(t *testing.T) {
	data, err := pptx.Skeleton{Slides: []pptx.SkeletonSlide{
		{Title: "{{Title0}}", Body: "{{Body0}}"},
		{Title: "{{Title1}}", Body: "{{Body1}}"},
	}}.Bytes()
	require.NoError(t, err)
	doc, err := pptx.Parse(data)
	require.NoError(t, err)

	res, err := deck.Merge(doc, []deck.SlideRecord{
		{Title: "Hook", Points: []string{"a", "b"}},
		{Title: "CTA", Points: []string{"c"}},
	})
	require.NoError(t, err)
	assert.Same(t, doc, res.Document)
	assert.Equal(t, 4, res.RunsChanged)
	assert.Empty(t, res.Unused)
	assert.Empty(t, res.Unresolved)

	assert.Equal(t, "Hook", doc.Slides[1].Shapes[0].Text())
	assert.Equal(t, "• a\n• b", doc.Slides[1].Shapes[1].Text())
	assert.Equal(t, "CTA", doc.Slides[2].Shapes[0].Text())
	assert.Equal(t, "• c", doc.Slides[2].Shapes[1].Text())

	out, err := doc.Bytes()
	require.NoError(t, err)
	reread, err := pptx.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "• a\n• b", reread.Slides[1].Shapes[1].Text())
}

func TestMerge_PreservesFormatting(t *testing.T) {
	doc, err := pptx.Parse(pptxtest.Package(t, pptxtest.Slide(
		pptxtest.TextShape(2, "Title", []pptxtest.Run{
			{Text: "Intro: {{Title0}}!", RPr: styled},
			pptxtest.R(" tail"),
		}),
	)))
	require.NoError(t, err)
	before := doc.Slides[0].Runs()[0].Format

	_, err = deck.Merge(doc, []deck.SlideRecord{{Title: "Hook", Points: []string{"x"}}})
	require.NoError(t, err)

	run := doc.Slides[0].Runs()[0]
	assert.Equal(t, "Intro: Hook!", run.Text())
	assert.Equal(t, before, run.Format)
	assert.False(t, doc.Slides[0].Runs()[1].Changed())

	out, err := doc.Bytes()
	require.NoError(t, err)
	reread, err := pptx.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, styled, reread.Slides[0].Runs()[0].Format.Raw)
}

func TestMerge_NoMatchingTokensIsNoop(t *testing.T) {
	data := pptxtest.Package(t, pptxtest.Slide(
		pptxtest.TextShape(2, "Title", []pptxtest.Run{pptxtest.R("Static title"), pptxtest.R("{Title0}")}),
	))
	doc, err := pptx.Parse(data)
	require.NoError(t, err)

	res, err := deck.Merge(doc, records(2))
	require.NoError(t, err)
	assert.Zero(t, res.RunsChanged)
	assert.Empty(t, res.Applied)
	assert.Equal(t, []int{0, 1}, res.Unused)
	for _, r := range doc.Runs() {
		assert.False(t, r.Changed())
	}

	out, err := doc.Bytes()
	require.NoError(t, err)
	reread, err := pptx.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "Static title{Title0}", reread.Slides[0].Shapes[0].Text())
}

func TestMerge_IndexDeterminism(t *testing.T) {
	// Shapes are stored out of index order on purpose.
	doc, err := pptx.Parse(pptxtest.Package(t, pptxtest.Slide(
		pptxtest.TextShape(2, "C", []pptxtest.Run{pptxtest.R("{{Title2}}")}),
		pptxtest.TextShape(3, "B", []pptxtest.Run{pptxtest.R("{{Title1}}")}),
		pptxtest.TextShape(4, "A", []pptxtest.Run{pptxtest.R("{{Title0}}")}),
	)))
	require.NoError(t, err)

	_, err = deck.Merge(doc, []deck.SlideRecord{
		{Title: "A", Points: []string{"1"}},
		{Title: "B", Points: []string{"2"}},
		{Title: "C", Points: []string{"3"}},
	})
	require.NoError(t, err)
	shapes := doc.Slides[0].Shapes
	assert.Equal(t, "C", shapes[0].Text())
	assert.Equal(t, "B", shapes[1].Text())
	assert.Equal(t, "A", shapes[2].Text())
}

func TestMerge_SeveralTokensInOneRun(t *testing.T) {
	doc, err := pptx.Parse(pptxtest.Package(t, pptxtest.Slide(
		pptxtest.TextShape(2, "S", []pptxtest.Run{pptxtest.R("{{Title0}} vs {{Title1}} ({{Title0}})")}),
	)))
	require.NoError(t, err)

	res, err := deck.Merge(doc, records(2))
	require.NoError(t, err)
	assert.Equal(t, 1, res.RunsChanged)
	assert.Equal(t, "title-0 vs title-1 (title-0)", doc.Slides[0].Runs()[0].Text())
	assert.Equal(t, []int(nil), res.Unused)
}

func TestMerge_SplitTokenNotRecognized(t *testing.T) {
	doc, err := pptx.Parse(pptxtest.Package(t, pptxtest.Slide(
		pptxtest.TextShape(2, "S", []pptxtest.Run{pptxtest.R("{{Tit"), {Text: "le0}}", RPr: styled}}),
	)))
	require.NoError(t, err)

	res, err := deck.Merge(doc, records(1))
	require.NoError(t, err)
	assert.Zero(t, res.RunsChanged)
	assert.Equal(t, "{{Title0}}", doc.Slides[0].Shapes[0].Text())
}

func TestMerge_ExcessPlaceholdersPassThrough(t *testing.T) {
	doc, err := pptx.Parse(pptxtest.Package(t, pptxtest.Slide(
		pptxtest.TextShape(2, "S",
			[]pptxtest.Run{pptxtest.R("{{Title0}}")}, []pptxtest.Run{pptxtest.R("{{Title1}}")},
			[]pptxtest.Run{pptxtest.R("{{Title2}}")}, []pptxtest.Run{pptxtest.R("{{Title3}}")},
			[]pptxtest.Run{pptxtest.R("{{Title4}}")}, []pptxtest.Run{pptxtest.R("{{Title5}}")},
		),
	)))
	require.NoError(t, err)

	res, err := deck.Merge(doc, records(3))
	require.NoError(t, err)
	assert.Equal(t, "title-0\ntitle-1\ntitle-2\n{{Title3}}\n{{Title4}}\n{{Title5}}", doc.Slides[0].Shapes[0].Text())
	assert.Equal(t, []deck.PlaceholderKey{
		{Kind: deck.KindTitle, Index: 3},
		{Kind: deck.KindTitle, Index: 4},
		{Kind: deck.KindTitle, Index: 5},
	}, res.Unresolved)
}

func TestMerge_InsertedContentIsNotRescanned(t *testing.T) {
	doc := tokenDeck(t, 1)
	_, err := deck.Merge(doc, []deck.SlideRecord{{Title: "{{Body0}}", Points: []string{"{{Title0}}"}}})
	require.NoError(t, err)
	assert.Equal(t, "{{Body0}}", doc.Slides[1].Shapes[0].Text())
	assert.Equal(t, "• {{Title0}}", doc.Slides[1].Shapes[1].Text())
}

func TestMerge_IdentityReplacementDoesNotWrite(t *testing.T) {
	doc := tokenDeck(t, 1)
	res, err := deck.Merge(doc, []deck.SlideRecord{{Title: "{{Title0}}", Points: []string{"x"}}})
	require.NoError(t, err)
	assert.False(t, doc.Slides[1].Runs()[0].Changed())
	assert.True(t, doc.Slides[1].Runs()[1].Changed())
	assert.Equal(t, 1, res.RunsChanged)
}

func TestMerge_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pairs := rapid.IntRange(0, 8).Draw(t, "pairs")
		n := rapid.IntRange(1, 8).Draw(t, "records")
		recs := records(n)

		doc := tokenDeck(t, pairs)
		before := structure(doc)

		res, err := deck.Merge(doc, recs)
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
		if after := structure(doc); fmt.Sprint(after) != fmt.Sprint(before) {
			t.Fatalf("structure changed: %v -> %v", before, after)
		}

		for i := 0; i < pairs; i++ {
			slide := doc.Slides[i+1]
			title, body := slide.Shapes[0].Text(), slide.Shapes[1].Text()
			if i < n {
				if title != recs[i].Title || body != deck.BodyText(recs[i].Points) {
					t.Fatalf("slide %d = %q/%q, want record %d", i, title, body, i)
				}
				if slide.Runs()[0].Format.Raw != styled {
					t.Fatalf("slide %d lost formatting", i)
				}
			} else if title != fmt.Sprintf("{{Title%d}}", i) || body != fmt.Sprintf("{{Body%d}}", i) {
				t.Fatalf("slide %d = %q/%q, want tokens left in place", i, title, body)
			}
		}

		wantUnused := 0
		if n > pairs {
			wantUnused = n - pairs
		}
		if len(res.Unused) != wantUnused {
			t.Fatalf("unused = %v, want %d entries", res.Unused, wantUnused)
		}
	})
}

func TestScanPlaceholders(t *testing.T) {
	doc := tokenDeck(t, 2)
	assert.Equal(t, []deck.PlaceholderKey{
		{Kind: deck.KindTitle, Index: 0},
		{Kind: deck.KindBody, Index: 0},
		{Kind: deck.KindTitle, Index: 1},
		{Kind: deck.KindBody, Index: 1},
	}, deck.ScanPlaceholders(doc))
	assert.Equal(t, 2, deck.TitleSlots(doc))
	assert.Nil(t, deck.ScanPlaceholders(nil))
}

func TestContentSlots(t *testing.T) {
	doc := tokenDeck(t, 3) // cover + 3
	assert.Equal(t, 2, deck.ContentSlots(doc, 2))
	assert.Equal(t, 4, deck.ContentSlots(doc, 0))
	assert.Equal(t, 0, deck.ContentSlots(doc, 10))
	assert.Equal(t, 0, deck.ContentSlots(nil, 0))
}

func TestPlaceholderKind_String(t *testing.T) {
	assert.Equal(t, "Title", deck.KindTitle.String())
	assert.Equal(t, "Body", deck.KindBody.String())
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", deck.ErrNoContent), deck.ErrNoContent))
}
