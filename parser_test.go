package huml

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// docValue parses src, failing the test on error, and returns the
// document's root value.
func docValue(t *testing.T, src string) Value {
	t.Helper()
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return doc.Root
}

func dump(v Value) any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.BoolVal()
	case KindInt:
		return v.IntVal()
	case KindFloat:
		return v.FloatVal()
	case KindString:
		return v.StringVal()
	case KindList:
		items := v.ListVal()
		out := make([]any, len(items))
		for i, e := range items {
			out[i] = dump(e)
		}
		return out
	case KindDict:
		out := map[string]any{}
		for k, e := range v.DictVal().Iter() {
			out[k] = dump(e)
		}
		return out
	default:
		return nil
	}
}

func TestParseScenarios(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		desc string
		src  string
		want any
	}{
		{
			desc: "VersionHeaderAndScalars",
			src: `%HUML v0.1.0
name: "ken"
age: 30
active: true
`,
			want: map[string]any{"name": "ken", "age": int64(30), "active": true},
		},
		{
			desc: "InlineListWithVectorMarker",
			src:  `nums:: 1, 2, 3`,
			want: map[string]any{"nums": []any{int64(1), int64(2), int64(3)}},
		},
		{
			desc: "NestedMultilineDict",
			src: `user::
  name: "ken"
  address::
    city: "nyc"
    zip: "10001"
`,
			want: map[string]any{
				"user": map[string]any{
					"name": "ken",
					"address": map[string]any{
						"city": "nyc",
						"zip":  "10001",
					},
				},
			},
		},
		{
			desc: "NumericBasesAndSeparators",
			src: `hex: 0xFF
oct: 0o17
bin: 0b1010
big: 1_000_000
`,
			want: map[string]any{
				"hex": int64(255),
				"oct": int64(15),
				"bin": int64(10),
				"big": int64(1000000),
			},
		},
		{
			desc: "RootInlineDict",
			src:  `a: 1, b: 2, c: "val"`,
			want: map[string]any{"a": int64(1), "b": int64(2), "c": "val"},
		},
		{
			desc: "RootBareList",
			src:  `1, 2, 3`,
			want: []any{int64(1), int64(2), int64(3)},
		},
		{
			desc: "EmptyDictMarker",
			src:  `{}`,
			want: map[string]any{},
		},
		{
			desc: "EmptyListMarker",
			src:  `[]`,
			want: []any{},
		},
		{
			desc: "RootSingleScalar",
			src:  `42`,
			want: int64(42),
		},
		{
			desc: "RootSingleEntryWithVectorValue",
			src:  `a:: 1, 2`,
			want: map[string]any{"a": []any{int64(1), int64(2)}},
		},
		{
			desc: "QuotedKeyWithSpace",
			src:  `"full name": "ken thompson"`,
			want: map[string]any{"full name": "ken thompson"},
		},
		{
			desc: "ListOfDicts",
			src: `- ::
  a: 1
- ::
  a: 2
`,
			want: []any{
				map[string]any{"a": int64(1)},
				map[string]any{"a": int64(2)},
			},
		},
		{
			desc: "WhitespacePreservingMultiline",
			src: `body:: ` + "```" + `
line one
  indented
line two
` + "```" + `
`,
			want: map[string]any{"body": "line one\n  indented\nline two"},
		},
		{
			desc: "WhitespaceStrippingMultiline",
			src: `body:: """
  line one
  line two
"""
`,
			want: map[string]any{"body": "line one\nline two"},
		},
		{
			desc: "TrailingCommentOnEntry",
			src:  `a: 1 # note`,
			want: map[string]any{"a": int64(1)},
		},
		{
			desc: "NullValue",
			src:  `a: null`,
			want: map[string]any{"a": nil},
		},
	} {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			root := docValue(t, tc.src)
			got := dump(root)
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.src, diff)
			}
		})
	}
}

func TestParseNanAndInfLiterals(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("a: nan\nb: inf\nc: -inf\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d := doc.Root.DictVal()

	av, _ := d.Get("a")
	if !av.Equal(Float(math.NaN())) {
		t.Errorf("a = %v; want nan", av)
	}
	bv, _ := d.Get("b")
	if bv.FloatVal() != math.Inf(1) {
		t.Errorf("b = %v; want +inf", bv)
	}
	cv, _ := d.Get("c")
	if cv.FloatVal() != math.Inf(-1) {
		t.Errorf("c = %v; want -inf", cv)
	}
}

func TestParseVersionHeader(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("%HUML v1.2.3\na: 1\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !doc.HasVersion || doc.Version != "1.2.3" {
		t.Fatalf("HasVersion/Version = %v/%q; want true/1.2.3", doc.HasVersion, doc.Version)
	}
}

func TestParseRejectsDuplicateKey(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("a: 1\na: 2\n"))
	assertKind(t, err, DuplicateKey)
}

func TestParseRejectsTrailingWhitespace(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("a: 1 \n"))
	assertKind(t, err, TrailingWhitespace)
}

func TestParseRejectsTabIndent(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("a::\n\tb: 1\n"))
	assertKind(t, err, InvalidIndent)
}

func TestParseRejectsOddIndent(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("a::\n   b: 1\n"))
	assertKind(t, err, InvalidIndent)
}

func TestParseRejectsMixedCollectionForm(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("a::\n  b: 1\n- c\n"))
	assertKind(t, err, MixedCollectionForm)
}

func TestParseRejectsBadCommentSpacing(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		desc string
		src  string
	}{
		{"no space before hash", "a: 1# note\n"},
		{"no space after hash", "a: 1 #note\n"},
	} {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.src))
			assertKind(t, err, BadCommentPlacement)
		})
	}
}

func TestParseRejectsUnterminatedMultiline(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("body:: ```\n  line one\n"))
	assertKind(t, err, UnterminatedString)
}

func TestParseRejectsInlineCollectionMixedShape(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("a:: 1, b: 2\n"))
	assertKind(t, err, MixedCollectionForm)
}

func TestParseRejectsInconsistentIndentJump(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("a::\n    b: 1\n"))
	assertKind(t, err, InvalidIndent)
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("Parse: got nil error; want Kind %s", want)
	}
	herr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Parse: error is %T, not *huml.Error", err)
	}
	if herr.Kind != want {
		t.Fatalf("Parse: Kind = %s; want %s (%v)", herr.Kind, want, herr)
	}
}

func TestParseEmptyDocumentIsNull(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("\n\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Root.Kind() != KindNull {
		t.Fatalf("Root.Kind() = %s; want null", doc.Root.Kind())
	}
}

func TestParseStandaloneCommentsSkipped(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("# header comment\na: 1\n# trailing comment\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, ok := doc.Root.DictVal().Get("a")
	if !ok || v.IntVal() != 1 {
		t.Fatalf("a = %v, %v; want 1, true", v, ok)
	}
}

func TestParseQuotedStringEscapes(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(`s: "a\tb\ncA"` + "\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, _ := doc.Root.DictVal().Get("s")
	if got, want := v.StringVal(), "a\tb\ncA"; got != want {
		t.Fatalf("s = %q; want %q", got, want)
	}
}

func TestParseDeepNesting(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	depth := 20
	for i := 0; i < depth; i++ {
		sb.WriteString(strings.Repeat("  ", i))
		sb.WriteString("a::\n")
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString("leaf: 1\n")

	doc, err := Parse([]byte(sb.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v := doc.Root
	for i := 0; i < depth; i++ {
		next, ok := v.DictVal().Get("a")
		if !ok {
			t.Fatalf("depth %d: missing key a", i)
		}
		v = next
	}
	leaf, ok := v.DictVal().Get("leaf")
	if !ok || leaf.IntVal() != 1 {
		t.Fatalf("leaf = %v, %v; want 1, true", leaf, ok)
	}
}
