package markup

import "testing"

func TestNormalizeFigureClasses(t *testing.T) {
	t.Run("image_class_added", func(t *testing.T) {
		value := `<figure><img src="/a.png"></figure>`
		want := `<figure class="image"><img src="/a.png"></figure>`
		if got := NormalizeFigureClasses(value); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("media_class_added_for_iframe", func(t *testing.T) {
		value := `<figure><iframe src="https://host/v"></iframe></figure>`
		want := `<figure class="media"><iframe src="https://host/v"></iframe></figure>`
		if got := NormalizeFigureClasses(value); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("media_class_added_for_oembed", func(t *testing.T) {
		value := `<figure><oembed url="https://host/v"></oembed></figure>`
		want := `<figure class="media"><oembed url="https://host/v"></oembed></figure>`
		if got := NormalizeFigureClasses(value); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("existing_classes_preserved", func(t *testing.T) {
		value := `<figure class="left wide"><img src="/a.png"></figure>`
		want := `<figure class="left wide image"><img src="/a.png"></figure>`
		if got := NormalizeFigureClasses(value); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		value := `<figure class="image"><img src="/a.png"></figure>`
		if got := NormalizeFigureClasses(value); got != value {
			t.Fatalf("changed an already normalized figure: %q", got)
		}
	})

	t.Run("unrecognized_content_left_alone", func(t *testing.T) {
		value := `<figure><figcaption>text</figcaption><img src="/a.png"></figure>`
		if got := NormalizeFigureClasses(value); got != value {
			t.Fatalf("figure with figcaption first should not change: %q", got)
		}
	})

	t.Run("multiple_figures", func(t *testing.T) {
		value := `<figure><img src="/a.png"></figure><p>x</p><figure><iframe src="https://h/v"></iframe></figure>`
		want := `<figure class="image"><img src="/a.png"></figure><p>x</p><figure class="media"><iframe src="https://h/v"></iframe></figure>`
		if got := NormalizeFigureClasses(value); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestRewriteEmbeds(t *testing.T) {
	t.Run("iframe_becomes_oembed", func(t *testing.T) {
		value := `<figure class="media"><iframe src="//www.youtube.com/embed/x" width="560"></iframe></figure>`
		want := `<figure class="media"><oembed url="https://www.youtube.com/embed/x" width="560"></oembed></figure>`
		if got := RewriteEmbeds(value, false); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("reference_mode_is_idempotent", func(t *testing.T) {
		value := `<figure class="media"><iframe src="//host/v"></iframe></figure>`
		once := RewriteEmbeds(value, false)
		if got := RewriteEmbeds(once, false); got != once {
			t.Fatalf("second run changed the value:\n%q\n%q", once, got)
		}
	})

	t.Run("inline_mode_wraps_iframe", func(t *testing.T) {
		value := `<figure class="media"><iframe src="//host/v"></iframe></figure>`
		want := `<figure class="media"><div class="embed" data-url="https://host/v"><iframe src="https://host/v"></iframe></div></figure>`
		if got := RewriteEmbeds(value, true); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("inline_mode_is_idempotent", func(t *testing.T) {
		value := `<figure class="media"><iframe src="//host/v"></iframe></figure>`
		once := RewriteEmbeds(value, true)
		if got := RewriteEmbeds(once, true); got != once {
			t.Fatalf("second run changed the value:\n%q\n%q", once, got)
		}
	})

	t.Run("existing_oembed_url_pinned_to_https", func(t *testing.T) {
		value := `<figure class="media"><oembed url="//vimeo.com/1"></oembed></figure>`
		want := `<figure class="media"><oembed url="https://vimeo.com/1"></oembed></figure>`
		if got := RewriteEmbeds(value, false); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("absolute_url_untouched", func(t *testing.T) {
		value := `<figure class="media"><iframe src="https://host/v"></iframe></figure>`
		want := `<figure class="media"><oembed url="https://host/v"></oembed></figure>`
		if got := RewriteEmbeds(value, false); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("iframe_without_src_skipped", func(t *testing.T) {
		value := `<figure class="media"><iframe></iframe></figure>`
		if got := RewriteEmbeds(value, false); got != value {
			t.Fatalf("iframe without src should be left alone: %q", got)
		}
	})

	t.Run("figure_with_image_untouched", func(t *testing.T) {
		value := `<figure class="image"><img src="//host/a.png"></figure>`
		if got := RewriteEmbeds(value, false); got != value {
			t.Fatalf("image figure should be left alone: %q", got)
		}
	})
}

func TestAbsoluteURL(t *testing.T) {
	cases := map[string]string{
		"//host/path":        "https://host/path",
		"https://host/path":  "https://host/path",
		"http://host/path":   "http://host/path",
		"/relative/path.png": "/relative/path.png",
	}
	for in, want := range cases {
		if got := absoluteURL(in); got != want {
			t.Fatalf("absoluteURL(%q): expected %q, got %q", in, want, got)
		}
	}
}
