package site

import (
	"context"
	"io"
	"strings"

	"ezmode_site/internal/domain/status"

	"github.com/a-h/templ"
)

// PoliciesPath is the route of the policies page
const PoliciesPath = "/policies"

// PageMeta describes the <head> of a page
type PageMeta struct {
	Title       string
	Description string
	Path        string
	BaseURL     string
}

// htmlWriter writes markup and keeps the first error
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// href writes a sanitized link target
func (h *htmlWriter) href(url string) {
	h.attr("href", string(templ.URL(url)))
}

// externalLink opens in a new tab without giving the target page a window.opener
func (h *htmlWriter) externalLink(url, class, label string) {
	h.raw("<a")
	h.href(url)
	if class != "" {
		h.attr("class", class)
	}
	h.raw(` target="_blank" rel="noopener noreferrer">`)
	h.text(label)
	h.raw("</a>")
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// PageTitle appends the brand name unless the title already carries it
func PageTitle(title, brand string) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return brand
	case strings.HasPrefix(title, brand) || strings.HasSuffix(title, brand):
		return title
	default:
		return title + " | " + brand
	}
}

// Layout wraps body in the shared document shell, header and footer
func Layout(content *Content, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		description := meta.Description
		if description == "" {
			description = content.Brand.Description
		}

		h.raw("<!DOCTYPE html>\n<html")
		h.attr("lang", content.Brand.Language)
		h.raw(">\n<head>\n")
		h.raw(`<meta charset="utf-8">` + "\n")
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
		h.raw("<title>")
		h.text(PageTitle(meta.Title, content.Brand.Name))
		h.raw("</title>\n")
		h.raw(`<meta name="description"`)
		h.attr("content", description)
		h.raw(">\n")
		if meta.BaseURL != "" {
			h.raw(`<link rel="canonical"`)
			h.href(strings.TrimSuffix(meta.BaseURL, "/") + meta.Path)
			h.raw(">\n")
		}
		h.raw("</head>\n<body>\n")

		renderHeader(h, content)
		h.component(ctx, body)
		renderFooter(h, content)

		h.raw("</body>\n</html>\n")
		return h.err
	})
}

func renderHeader(h *htmlWriter, content *Content) {
	h.raw(`<header class="site-header">` + "\n")
	h.raw(`<a href="/" class="brand">`)
	h.raw(`<span class="brand-prefix">`)
	h.text(content.Brand.Prefix)
	h.raw(`</span>.<span class="brand-suffix">`)
	h.text(content.Brand.Suffix)
	h.raw("</span></a>\n<nav>")
	h.externalLink(content.Links.GitHub, "nav-link", "GitHub")
	h.externalLink(content.Links.Discord, "nav-link", "Discord")
	h.raw("</nav>\n</header>\n")
}

func renderFooter(h *htmlWriter, content *Content) {
	h.raw("<footer>\n<nav>")
	h.externalLink(content.Links.GitHub, "", "GitHub")
	h.externalLink(content.Links.Discord, "", "Discord")
	h.raw("<a")
	h.href(PoliciesPath)
	h.raw(">")
	h.text(content.Policies.Title)
	h.raw("</a></nav>\n<p>Source code licensed under ")
	h.text(content.License)
	h.raw(".</p>\n<p>")
	h.text(content.Brand.Name)
	h.raw("</p>\n</footer>\n")
}

// HomePage renders the landing page with the ordered game list
func HomePage(content *Content, games []status.DisplayGame, baseURL string) templ.Component {
	meta := PageMeta{
		Title:   content.Brand.Name + " | " + heroHeadline(content.Hero),
		Path:    "/",
		BaseURL: baseURL,
	}
	return Layout(content, meta, homeBody(content, games))
}

func heroHeadline(hero Hero) string {
	return strings.Join(strings.Fields(hero.Lead+" "+hero.Highlight+" "+hero.Trail), " ")
}

func homeBody(content *Content, games []status.DisplayGame) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw("<main>\n")
		h.raw(`<section class="hero">` + "\n<h1>")
		h.text(content.Hero.Lead)
		h.raw(` <span class="highlight">`)
		h.text(content.Hero.Highlight)
		h.raw("</span> ")
		h.text(content.Hero.Trail)
		h.raw("</h1>\n<p>")
		h.text(content.Hero.Subtitle)
		h.raw("</p>\n<a")
		h.href("#" + content.FirstProductID())
		h.attr("class", "scroll")
		h.attr("aria-label", content.Hero.ScrollLabel)
		h.raw(">Scroll</a>\n</section>\n")

		for _, product := range content.Products {
			renderProduct(h, product, games)
		}

		h.raw("</main>\n")
		return h.err
	})
}

func renderProduct(h *htmlWriter, product Product, games []status.DisplayGame) {
	h.raw("<section")
	h.attr("id", product.ID)
	h.attr("class", "product")
	h.raw(">\n<h2>")
	h.text(product.Name)
	h.raw(` <span class="product-title">`)
	h.text(product.Title)
	h.raw("</span></h2>\n<p>")
	h.text(product.Summary)
	h.raw("</p>\n")

	if len(product.Features) > 0 {
		h.raw(`<ul class="features">` + "\n")
		for _, feature := range product.Features {
			h.raw(`<li class="feature"><h3>`)
			h.text(feature.Title)
			h.raw("</h3><p>")
			h.text(feature.Body)
			h.raw("</p></li>\n")
		}
		h.raw("</ul>\n")
	}

	if product.ShowGames {
		renderGames(h, games)
	}

	h.raw("</section>\n")
}

func renderGames(h *htmlWriter, games []status.DisplayGame) {
	h.raw(`<div class="supported-games">` + "\n<h3>Supported games</h3>\n")

	if len(games) == 0 {
		h.raw(`<p class="games-empty">Game support is on the way.</p>` + "\n</div>\n")
		return
	}

	h.raw(`<ul class="games">` + "\n")
	for _, game := range games {
		h.raw("<li")
		h.attr("class", "game game-"+string(game.Tier))
		h.attr("data-game", game.ID)
		h.attr("data-status", string(game.Tier))
		h.raw(`><span class="game-name">`)
		h.text(game.Name)
		h.raw(`</span> <span class="badge">`)
		h.text(game.Tier.Label())
		h.raw(`</span><p class="game-description">`)
		h.text(game.Description)
		h.raw("</p>")
		if game.HasDownload() {
			h.externalLink(*game.DownloadURL, "download", "Download")
		}
		h.raw("</li>\n")
	}
	h.raw("</ul>\n</div>\n")
}

// PoliciesPage renders the "How We Operate" page
func PoliciesPage(content *Content, baseURL string) templ.Component {
	meta := PageMeta{
		Title:       content.Policies.Title,
		Description: content.Policies.Intro,
		Path:        PoliciesPath,
		BaseURL:     baseURL,
	}
	return Layout(content, meta, policiesBody(content.Policies))
}

func policiesBody(policies Policies) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<main class="policies">` + "\n<h1>")
		h.text(policies.Title)
		h.raw("</h1>\n<p>")
		h.text(policies.Intro)
		h.raw("</p>\n")

		for _, section := range policies.Sections {
			h.raw("<section")
			h.attr("id", section.ID)
			h.raw(">\n<h2>")
			h.text(section.Heading)
			h.raw("</h2>\n")
			for _, paragraph := range section.Paragraphs {
				h.raw("<p>")
				h.text(paragraph)
				h.raw("</p>\n")
			}
			h.raw("</section>\n")
		}

		h.raw("</main>\n")
		return h.err
	})
}
