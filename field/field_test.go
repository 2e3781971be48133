package field

import (
	"strings"
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"rte/common"
	"rte/entry"
	"rte/markup"
)

func testField(t *testing.T, s Settings) *Field {
	t.Helper()
	return New(7, "body", "Body", s, zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))))
}

func TestNormalizeValue(t *testing.T) {
	t.Run("strips_editor_attributes", func(t *testing.T) {
		f := testField(t, Settings{})
		in := `<p>a</p><nested-entry data-entryid="5" data-card="&lt;div&gt;card&lt;/div&gt;">x</nested-entry>`
		want := `<p>a</p><nested-entry data-entryid="5">x</nested-entry>`
		if got := f.NormalizeValue(in); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("canonicalizes_figure_classes", func(t *testing.T) {
		f := testField(t, Settings{})
		in := `<figure><img src="/pix/a.png" alt=""></figure>`
		want := `<figure class="image"><img src="/pix/a.png" alt=""></figure>`
		if got := f.NormalizeValue(in); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("inline_embeds_keep_the_iframe", func(t *testing.T) {
		f := testField(t, Settings{Embeds: common.EmbedStyleInline})
		in := `<figure><iframe src="//player.example/v/9" allowfullscreen="true"></iframe></figure>`
		want := `<figure class="media"><div class="embed" data-url="https://player.example/v/9">` +
			`<iframe src="https://player.example/v/9" allowfullscreen="true"></iframe></div></figure>`
		if got := f.NormalizeValue(in); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("reference_embeds_store_oembed", func(t *testing.T) {
		f := testField(t, Settings{Embeds: common.EmbedStyleReference})
		in := `<figure class="media"><iframe src="https://player.example/v/9" width="640"></iframe></figure>`
		want := `<figure class="media"><oembed url="https://player.example/v/9" width="640"></oembed></figure>`
		if got := f.NormalizeValue(in); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("sanitizer_drops_scripts_and_handlers", func(t *testing.T) {
		f := testField(t, Settings{Purify: true, EntryTypes: []string{"note"}})
		in := `<p onmouseover="steal()">Hi</p><script>alert(1)</script>`
		want := `<p>Hi</p>`
		if got := f.NormalizeValue(in); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("sanitizer_keeps_canonical_markers", func(t *testing.T) {
		f := testField(t, Settings{Purify: true, EntryTypes: []string{"note"}})
		in := `<p>a</p>` + markup.Encode(7)
		if got := f.NormalizeValue(in); got != in {
			t.Errorf("got %q, want %q", got, in)
		}
	})

	t.Run("markers_stripped_when_feature_off", func(t *testing.T) {
		f := testField(t, Settings{Purify: true})
		got := f.NormalizeValue(`<p>a</p><nested-entry data-entryid="7">inline</nested-entry>`)
		if strings.Contains(got, markup.MarkerTag) {
			t.Errorf("marker survived sanitization: %q", got)
		}
		if !strings.Contains(got, "inline") || !strings.Contains(got, "<p>a</p>") {
			t.Errorf("content lost: %q", got)
		}
	})

	t.Run("bad_id_attribute_dropped", func(t *testing.T) {
		f := testField(t, Settings{Purify: true, EntryTypes: []string{"note"}})
		in := `<nested-entry data-entryid="abc">x</nested-entry>`
		want := `<nested-entry>x</nested-entry>`
		if got := f.NormalizeValue(in); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("full_pipeline", func(t *testing.T) {
		f := testField(t, Settings{Purify: true, Embeds: common.EmbedStyleInline, EntryTypes: []string{"note"}})
		in := `<figure><iframe src="//v.example/1"></iframe></figure>` +
			`<nested-entry data-entryid="5" data-card="&lt;b&gt;x&lt;/b&gt;"></nested-entry>` +
			`<script>boom()</script>`
		want := `<figure class="media"><div class="embed" data-url="https://v.example/1">` +
			`<iframe src="https://v.example/1"></iframe></div></figure>` +
			`<nested-entry data-entryid="5"></nested-entry>`
		if got := f.NormalizeValue(in); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestAmendPolicy(t *testing.T) {
	t.Run("disabled_adds_nothing", func(t *testing.T) {
		p := bluemonday.NewPolicy()
		AmendPolicy(p, false)
		if got := p.Sanitize(markup.Encode(5)); got != "" {
			t.Errorf("marker not stripped: %q", got)
		}
	})

	t.Run("enabled_whitelists_the_marker", func(t *testing.T) {
		p := bluemonday.NewPolicy()
		AmendPolicy(p, true)
		in := markup.Encode(5)
		if got := p.Sanitize(in); got != in {
			t.Errorf("got %q, want %q", got, in)
		}
	})
}

func TestLinkOptions(t *testing.T) {
	types := []entry.Type{
		{Handle: "chapter10", Name: "Chapter 10"},
		{Handle: "appendix", Name: "Appendix"},
		{Handle: "chapter2", Name: "Chapter 2"},
		{Handle: "scratch"},
	}

	t.Run("natural_order_by_label", func(t *testing.T) {
		got := LinkOptions(types, nil)
		labels := make([]string, len(got))
		for i, o := range got {
			labels[i] = o.Label
		}
		want := []string{"Appendix", "Chapter 2", "Chapter 10", "scratch"}
		for i := range want {
			if labels[i] != want[i] {
				t.Fatalf("labels %v, want %v", labels, want)
			}
		}
		if got[1].Handle != "chapter2" || got[1].Sources[0] != "type:chapter2" {
			t.Errorf("option wiring wrong: %+v", got[1])
		}
	})

	t.Run("hook_reshapes_the_list", func(t *testing.T) {
		got := LinkOptions(types, func(opts []LinkOption) []LinkOption {
			kept := opts[:0]
			for _, o := range opts {
				if strings.HasPrefix(o.Label, "Chapter") {
					kept = append(kept, o)
				}
			}
			return kept
		})
		if len(got) != 2 || got[0].Label != "Chapter 2" || got[1].Label != "Chapter 10" {
			t.Errorf("hook result wrong: %+v", got)
		}
	})
}

func TestSettings(t *testing.T) {
	t.Run("allows_configured_types", func(t *testing.T) {
		s := Settings{EntryTypes: []string{"note", "aside"}}
		if !s.Nested() || !s.AllowsType("note") || s.AllowsType("quote") {
			t.Errorf("type gate wrong: %+v", s)
		}
		if (Settings{}).Nested() {
			t.Error("empty settings must disable nesting")
		}
	})
}
