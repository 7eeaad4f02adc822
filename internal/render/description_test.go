package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRender_Segments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "fenced block in the middle",
			in:   "a```b```c",
			want: []Segment{{SegmentProse, "a"}, {SegmentCode, "b"}, {SegmentProse, "c"}},
		},
		{
			name: "no fences",
			in:   "no code",
			want: []Segment{{SegmentProse, "no code"}},
		},
		{
			name: "unterminated fence",
			in:   "before```after",
			want: []Segment{{SegmentProse, "before"}, {SegmentCode, "after"}},
		},
		{
			name: "three fences",
			in:   "x```y```z```w",
			want: []Segment{{SegmentProse, "x"}, {SegmentCode, "y"}, {SegmentProse, "z"}, {SegmentCode, "w"}},
		},
		{
			name: "leading fence keeps positions",
			in:   "```go\nfmt.Println()\n```",
			want: []Segment{{SegmentProse, ""}, {SegmentCode, "go\nfmt.Println()\n"}, {SegmentProse, ""}},
		},
		{
			name: "empty",
			in:   "",
			want: []Segment{{SegmentProse, ""}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.in).Segments
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestDocument_HTML(t *testing.T) {
	out := Render("line1\nline2```if a < b {\n}```").HTML()

	assert.Contains(t, out, `<p class="leading-relaxed">line1<br />`+"\n"+`line2</p>`)
	assert.Contains(t, out, "<code>if a &lt; b {\n}</code></pre>")
	assert.True(t, strings.HasSuffix(out, `<p class="leading-relaxed"></p>`))
}

func TestDocument_HTMLEscapesMarkup(t *testing.T) {
	out := Render(`<script>alert("x")</script>` + "```<img src=x onerror=alert(1)>```").HTML()

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	assert.Contains(t, out, "&lt;img src=x onerror=alert(1)&gt;")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "hello world", PlainText("<b>hello</b> world"))
	assert.Equal(t, "run make", PlainText("run ```make```"))
	assert.Equal(t, "plain", PlainText("plain"))
}

func TestPlainText_DecodesCharacterReferences(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", PlainText("Tom &amp; Jerry"))
	assert.Equal(t, "<b> is bold", PlainText("&lt;b&gt; is bold"))
	assert.Equal(t, "R&D", PlainText("R&D"))
	assert.Equal(t, "Tom & Jerry", Preview("Tom &amp; Jerry", PreviewLength))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", PreviewLength))

	long := strings.Repeat("a", 200)
	got := Preview(long, PreviewLength)
	assert.Equal(t, strings.Repeat("a", PreviewLength)+Ellipsis, got)

	exact := strings.Repeat("b", PreviewLength)
	assert.Equal(t, exact, Preview(exact, PreviewLength))
}

func TestPreview_MultiByte(t *testing.T) {
	text := strings.Repeat("Ж日😀", 100)
	for _, max := range []int{0, 1, 2, 3, 10, 159, 160, 161} {
		got := Preview(text, max)
		assert.True(t, utf8.ValidString(got), "max=%d produced invalid UTF-8", max)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), max+1, "max=%d", max)
		assert.True(t, strings.HasSuffix(got, Ellipsis), "max=%d", max)
	}
	assert.Equal(t, "Ж日"+Ellipsis, Preview(text, 2))
}
