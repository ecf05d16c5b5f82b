package convert

import (
	"errors"
	"strings"
	"testing"
)

func TestConvert_Markdown(t *testing.T) {
	tests := []struct {
		name   string
		header string
		body   string
		want   string
	}{
		{
			"bold",
			"<h1>Title</h1>\n",
			"<p>Hello <b>world</b></p>",
			"#Title#\n\nHello **world**",
		},
		{
			"quote and italic",
			"Notes\n",
			"<blockquote>so <i>it</i> goes</blockquote><p>after</p>",
			"#Notes#\n\n> so _it_ goes\nafter",
		},
		{
			"links",
			"T\n",
			`<p>see <a href="http://a.io">one</a> and <a href="http://b.io/?x=1&amp;y=2">two</a></p>`,
			"#T#\n\nsee [one](http://a.io) and [two](http://b.io/?x=1&y=2)",
		},
		{
			"entities in links decode once",
			"T\n",
			`<p>plain &amp;lt;tag&amp;gt; and <a href="http://x.io/?q=&amp;amp;">a &amp;lt;b&amp;gt;</a></p>`,
			"#T#\n\nplain &lt;tag&gt; and [a &lt;b&gt;](http://x.io/?q=&amp;)",
		},
		{
			"line breaks",
			"T\n",
			"<p>one<br>two</p>\n\n<p>three</p>",
			"#T#\n\none\ntwo\n\nthree",
		},
		{
			"entities",
			"T\n",
			"<p>it's 1 &lt; 2 &amp; more</p>",
			"#T#\n\nit's 1 < 2 & more",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(Markdown, tt.header, tt.body)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConvert_Plain(t *testing.T) {
	got, err := Convert(Plain, "<h1>Title</h1>\n", "<p>Hello <b>world</b></p><p>Again</p>")
	if err != nil {
		t.Fatal(err)
	}
	want := "Title\nHello world\nAgain"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestConvert_HTML(t *testing.T) {
	got, err := Convert(HTML, "Title\t", "<p>\tHello</p>")
	if err != nil {
		t.Fatal(err)
	}
	if got != "<h1>Title</h1><p>Hello</p>" {
		t.Errorf("unexpected html %q", got)
	}
}

func TestConvert_UnknownFormat(t *testing.T) {
	got, err := Convert(Format("rtf"), "a", "b")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestExportHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "\n"},
		{"Title", "Title\n"},
		{"Ti\ntle\n", "Title\n"},
		{"<b>A</b>\n\n", "<b>A</b>\n"},
	}
	for _, tt := range tests {
		if got := ExportHeader(tt.in); got != tt.want {
			t.Errorf("ExportHeader(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat(""); !errors.Is(err, ErrNoFormat) {
		t.Errorf("expected ErrNoFormat, got %v", err)
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	f, err := ParseFormat(" Markdown ")
	if err != nil || f != Markdown {
		t.Errorf("expected markdown, got %q (err %v)", f, err)
	}
}

func TestStages(t *testing.T) {
	tests := []struct {
		stage Stage
		in    string
		want  string
	}{
		{TagStrip, "<h1>A <b>b</b></h1><!-- c -->", "A b"},
		{BlockText, "<p>a</p><blockquote>b</blockquote>", "\na\nb"},
		{TabStrip, "\ta\tb", "ab"},
		{LineStrip, "a\r\nb\n\nc\td", "abcd"},
		{BoldMap, "<b>x</b>", "**x**"},
		{ItalicMap, "<i>x</i>", "_x_"},
		{BlockMap, "<blockquote>q</blockquote><P>p</P>a<br/>b<br>c", "> q\np\na\nb\nc"},
		{TripleNewline, "a\n\n\nb\n\n\n\nc", "a\nb\n\nc"},
		{LeadingNewline, "\n\nx\n", "\nx\n"},
		{TrailingNewline, "x\n\n", "x\n"},
		{TrimNewlines, "\n\nx\n", "x"},
	}
	for _, tt := range tests {
		if got := tt.stage.Apply(tt.in); got != tt.want {
			t.Errorf("%s(%q): expected %q, got %q", tt.stage.Name, tt.in, tt.want, got)
		}
	}
}

func TestLinkExtract_Lazy(t *testing.T) {
	in := `<a href="/a">one</a> middle <a href="/b">two</a>`
	want := "[one](/a) middle [two](/b)"
	if got := LinkExtract.Apply(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := LinkExtract.Apply("no links"); got != "no links" {
		t.Errorf("expected input unchanged, got %q", got)
	}
}

func TestPipelineNames(t *testing.T) {
	got := strings.Join(markdownBody.Names(), ",")
	want := "tab-strip,line-strip,bold-map,italic-map,block-map,link-extract,trim-newlines,entity-decode"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRenderPreview(t *testing.T) {
	out, err := RenderPreview("#Title#\n\nHello **world**")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<strong>world</strong>") {
		t.Errorf("expected strong tag in preview, got %q", out)
	}
}
