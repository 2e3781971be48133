package render

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"

	"rte/entry"
)

// summaryLimit bounds the card summary, whole sentences are kept over a
// hard character cut.
const summaryLimit = 180

// CardOptions select the optional parts of a card. The zero value renders
// the bare static card used for revisions and missing entries.
type CardOptions struct {
	AutoReload    bool
	ShowDraftName bool
	ShowStatus    bool
	ShowThumb     bool
}

// Thumbnailer produces a small inline preview image for an entry, usually a
// data URI. Returning false means the entry has no usable preview.
type Thumbnailer interface {
	Thumb(e *entry.Entry) (string, bool)
}

// Cards renders the summary widget shown for a nested entry when no display
// template applies.
type Cards struct {
	thumbs Thumbnailer
	log    *zap.Logger
}

func NewCards(thumbs Thumbnailer, log *zap.Logger) *Cards {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cards{thumbs: thumbs, log: log.Named("card")}
}

// Render builds the card markup for one entry. typ may be nil when the
// entry's type is unknown, the card then carries no type label.
func (c *Cards) Render(e *entry.Entry, typ *entry.Type, opts CardOptions) (string, error) {
	doc := etree.NewDocument()

	card := doc.CreateElement("div")
	class := "entry-card"
	if e.Missing {
		class += " entry-card--missing"
	}
	card.CreateAttr("class", class)
	card.CreateAttr("data-entry-id", strconv.FormatInt(e.ID, 10))
	if typ != nil {
		card.CreateAttr("data-type", typ.Handle)
		if typ.Icon != "" {
			card.CreateAttr("data-icon", typ.Icon)
		}
	}
	if opts.AutoReload {
		card.CreateAttr("data-auto-reload", "true")
	}

	if opts.ShowThumb && c.thumbs != nil {
		if src, ok := c.thumbs.Thumb(e); ok {
			thumb := card.CreateElement("div")
			thumb.CreateAttr("class", "entry-card__thumb")
			img := thumb.CreateElement("img")
			img.CreateAttr("class", "entry-card__image")
			img.CreateAttr("src", src)
			img.CreateAttr("alt", "")
		}
	}

	content := card.CreateElement("div")
	content.CreateAttr("class", "entry-card__content")

	heading := content.CreateElement("div")
	heading.CreateAttr("class", "entry-card__heading")
	if typ != nil && typ.Name != "" {
		label := heading.CreateElement("span")
		label.CreateAttr("class", "entry-card__type")
		label.SetText(typ.Name)
	}
	title := heading.CreateElement("span")
	title.CreateAttr("class", "entry-card__title")
	title.SetText(e.Label())
	if opts.ShowDraftName && e.DraftName != "" {
		draft := heading.CreateElement("span")
		draft.CreateAttr("class", "entry-card__draft")
		draft.SetText(e.DraftName)
	}
	if opts.ShowStatus {
		status := heading.CreateElement("span")
		status.CreateAttr("class", "entry-card__status entry-card__status--"+string(e.Status))
		status.SetText(string(e.Status))
	}

	if summary := clipSummary(e.Summary); summary != "" {
		p := content.CreateElement("p")
		p.CreateAttr("class", "entry-card__summary")
		p.SetText(summary)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
)

func summaryTokenizer() *sentences.DefaultSentenceTokenizer {
	tokenizerOnce.Do(func() {
		t, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			return
		}
		tokenizer = t
	})
	return tokenizer
}

// clipSummary shortens free text to the sentences that fit the summary
// limit. A first sentence longer than the limit is kept whole, cutting mid
// sentence reads worse than a long card.
func clipSummary(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= summaryLimit {
		return text
	}
	t := summaryTokenizer()
	if t == nil {
		return hardClip(text)
	}
	var b strings.Builder
	for _, s := range t.Tokenize(text) {
		sent := strings.TrimSpace(s.Text)
		if sent == "" {
			continue
		}
		if b.Len() > 0 && b.Len()+len(sent)+1 > summaryLimit {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sent)
		if b.Len() >= summaryLimit {
			break
		}
	}
	if b.Len() == 0 {
		return hardClip(text)
	}
	return b.String()
}

func hardClip(text string) string {
	cut := summaryLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return strings.TrimSpace(text[:cut]) + "…"
}
