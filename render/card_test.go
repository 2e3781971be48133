package render

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"rte/common"
	"rte/entry"
)

type fakeThumbs struct {
	src string
}

func (f fakeThumbs) Thumb(_ *entry.Entry) (string, bool) {
	return f.src, f.src != ""
}

func TestCardRender(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	typ := &entry.Type{Handle: "quote", Name: "Quote", Icon: "quote-right"}
	e := &entry.Entry{
		ID:        12,
		Type:      "quote",
		Title:     "On Brevity",
		Status:    common.EntryStatusLive,
		Summary:   "Short and clear.",
		DraftName: "Draft one",
	}

	t.Run("full_card", func(t *testing.T) {
		cards := NewCards(fakeThumbs{src: "data:image/svg+xml;base64,QQ=="}, log)
		out, err := cards.Render(e, typ, CardOptions{AutoReload: true, ShowDraftName: true, ShowStatus: true, ShowThumb: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			`class="entry-card"`,
			`data-entry-id="12"`,
			`data-type="quote"`,
			`data-icon="quote-right"`,
			`data-auto-reload="true"`,
			`src="data:image/svg+xml;base64,QQ=="`,
			`<span class="entry-card__type">Quote</span>`,
			`<span class="entry-card__title">On Brevity</span>`,
			`<span class="entry-card__draft">Draft one</span>`,
			`entry-card__status--live`,
			`<p class="entry-card__summary">Short and clear.</p>`,
		} {
			if !strings.Contains(out, want) {
				t.Fatalf("expected card to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("bare_card", func(t *testing.T) {
		cards := NewCards(fakeThumbs{src: "data:image/svg+xml;base64,QQ=="}, log)
		out, err := cards.Render(e, typ, CardOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, banned := range []string{"data-auto-reload", "entry-card__thumb", "entry-card__status", "entry-card__draft"} {
			if strings.Contains(out, banned) {
				t.Fatalf("expected bare card without %q, got %q", banned, out)
			}
		}
		if !strings.Contains(out, "On Brevity") {
			t.Fatalf("expected title to remain, got %q", out)
		}
	})

	t.Run("missing_entry", func(t *testing.T) {
		cards := NewCards(nil, log)
		out, err := cards.Render(entry.Placeholder(42, 1), nil, CardOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, `class="entry-card entry-card--missing"`) {
			t.Fatalf("expected missing modifier, got %q", out)
		}
		if !strings.Contains(out, "Missing entry (#42)") {
			t.Fatalf("expected placeholder title with id, got %q", out)
		}
	})

	t.Run("escapes_text", func(t *testing.T) {
		cards := NewCards(nil, log)
		hostile := &entry.Entry{ID: 3, Title: `<script>alert("x")</script>`}
		out, err := cards.Render(hostile, nil, CardOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(out, "<script>") {
			t.Fatalf("expected escaped title, got %q", out)
		}
		if !strings.Contains(out, "&lt;script&gt;") {
			t.Fatalf("expected entity encoded title, got %q", out)
		}
	})

	t.Run("clips_long_summary", func(t *testing.T) {
		first := "The first sentence runs long enough to be worth keeping on its own and describes the entry in some detail for the editor."
		second := "The second sentence would push the card well past the budget and should be dropped."
		cards := NewCards(nil, log)
		out, err := cards.Render(&entry.Entry{ID: 5, Title: "T", Summary: first + " " + second}, nil, CardOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, first) {
			t.Fatalf("expected first sentence kept, got %q", out)
		}
		if strings.Contains(out, second) {
			t.Fatalf("expected second sentence dropped, got %q", out)
		}
	})
}

func TestClipSummary(t *testing.T) {
	t.Run("short_text_unchanged", func(t *testing.T) {
		if got := clipSummary("One line."); got != "One line." {
			t.Fatalf("expected unchanged text, got %q", got)
		}
	})

	t.Run("whitespace_collapsed", func(t *testing.T) {
		if got := clipSummary("a\n\tb   c"); got != "a b c" {
			t.Fatalf("expected collapsed whitespace, got %q", got)
		}
	})

	t.Run("overlong_first_sentence_kept_whole", func(t *testing.T) {
		long := strings.Repeat("word ", 50) + "end."
		got := clipSummary(long)
		if !strings.HasSuffix(got, "end.") {
			t.Fatalf("expected whole sentence kept, got %q", got)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		if got := clipSummary(""); got != "" {
			t.Fatalf("expected empty result, got %q", got)
		}
	})
}
