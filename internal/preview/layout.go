package preview

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/notenav/internal/content"
	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/nav"
	"git.home.luguber.info/inful/notenav/internal/zoom"
)

type linkView struct {
	Label  string
	Target string
	Active bool
}

type sectionView struct {
	Title string
	Open  bool
	Links []linkView
}

type pageView struct {
	Title       string
	SiteTitle   string
	Description string
	TopNav      []linkView
	Sidebar     []sectionView
	Social      []linkView
	Body        template.HTML
	LastUpdated string
	LiveReload  template.JS
	Client      template.JS
}

var layoutTemplate = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}} | {{end}}{{.SiteTitle}}</title>
<meta name="description" content="{{.Description}}">
<style>
body{margin:0;font-family:system-ui,sans-serif;display:grid;grid-template-columns:16rem 1fr;grid-template-rows:auto 1fr}
header{grid-column:1/3;display:flex;gap:1rem;align-items:center;padding:.75rem 1.5rem;border-bottom:1px solid #ddd}
header .brand{font-weight:600;margin-right:auto}
aside{padding:1rem;border-right:1px solid #ddd}
main{padding:1.5rem 2rem;max-width:60rem}
a.active{font-weight:600}
.medium-zoom-image{cursor:zoom-in}
</style>
</head>
<body>
<header>
<a class="brand" href="/">{{.SiteTitle}}</a>
<nav class="top-nav">{{range .TopNav}}<a href="{{.Target}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a> {{end}}</nav>
<nav class="social">{{range .Social}}<a href="{{.Target}}" rel="noopener" aria-label="{{.Label}}">{{.Label}}</a> {{end}}</nav>
</header>
<aside class="sidebar">
{{range .Sidebar}}<details{{if .Open}} open{{end}}><summary>{{.Title}}</summary><ul>
{{range .Links}}<li><a href="{{.Target}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a></li>
{{end}}</ul></details>
{{end}}</aside>
<main class="vp-doc">
{{.Body}}
{{if .LastUpdated}}<p class="last-updated">Last updated: {{.LastUpdated}}</p>{{end}}
</main>
<script>{{.LiveReload}}</script>
<script type="module">{{.Client}}</script>
</body>
</html>
`))

// renderLayout wraps a rendered page body in the site chrome and parses the
// result into a document.
func renderLayout(st *state, target string, page content.Page, body []byte) (*html.Node, error) {
	n := st.site.Navigation
	view := pageView{
		Title:       page.Title,
		SiteTitle:   st.site.Title,
		Description: st.site.Description,
		TopNav:      linkViews(n.TopNav(), target),
		Social:      linkViews(n.SocialLinks(), ""),
		LiveReload:  template.JS(LiveReloadScript),
		Client:      template.JS(clientScript(st.cfg.Zoom.IsEnabled())),
	}
	// #nosec G203 - the body is the author's own Markdown rendered locally
	view.Body = template.HTML(body)
	for _, sec := range n.Sidebar() {
		links := linkViews(sec.Entries(), target)
		open := !sec.Collapsed
		for _, l := range links {
			open = open || l.Active
		}
		view.Sidebar = append(view.Sidebar, sectionView{Title: sec.Title, Open: open, Links: links})
	}
	if t := st.repo.LastUpdated(page.Path); !t.IsZero() {
		view.LastUpdated = t.UTC().Format(time.DateOnly)
	}

	var buf bytes.Buffer
	if err := layoutTemplate.Execute(&buf, view); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to render layout").
			WithContext("target", target).Build()
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to parse rendered page").
			WithContext("target", target).Build()
	}
	return doc, nil
}

func linkViews(links []nav.NavLink, active string) []linkView {
	out := make([]linkView, 0, len(links))
	for _, l := range links {
		out = append(out, linkView{Label: l.Label, Target: l.Target, Active: active != "" && l.Target == active})
	}
	return out
}

// diagramContainer matches promoted diagrams the browser has not rendered
// yet. Served pages hold the diagram source, so the hook marks the container
// and the client script hands the SVG rendered into it to medium-zoom.
const diagramContainer = ".mermaid:not(:has(svg))"

// hookSelector extends the configured selector with pending diagrams.
func hookSelector(selector string) string {
	if strings.TrimSpace(selector) == "" {
		selector = zoom.DefaultSelector
	}
	return selector + ", " + diagramContainer
}

const mermaidScript = `import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: false });
try {
  await mermaid.run({ querySelector: ".mermaid:not(:has(svg))" });
} catch (err) {
  console.warn("notenav: diagram rendering failed", err);
}
`

const zoomScript = `const { default: mediumZoom } = await import("https://cdn.jsdelivr.net/npm/medium-zoom@1.1.0/dist/medium-zoom.esm.js");
const zoomTargets = new Set();
for (const el of document.querySelectorAll("[data-zoomable]")) {
  const target = el.matches("svg, img") ? el : el.querySelector("svg, img");
  if (!target || zoomTargets.has(target)) continue;
  zoomTargets.add(target);
  mediumZoom(target, { background: el.getAttribute("data-zoom-background") || undefined });
}
`

// clientScript renders diagrams in the browser and, with zoom enabled,
// attaches medium-zoom to every element the hook marked.
func clientScript(zoomEnabled bool) string {
	if zoomEnabled {
		return mermaidScript + zoomScript
	}
	return mermaidScript
}

// promoteMermaid turns fenced mermaid code blocks into the container the
// diagram renderer looks for.
func promoteMermaid(doc *html.Node) {
	goquery.NewDocumentFromNode(doc).Find("pre > code.language-mermaid").Each(func(_ int, code *goquery.Selection) {
		div := &html.Node{
			Type: html.ElementNode,
			Data: "div",
			Attr: []html.Attribute{{Key: "class", Val: "mermaid"}},
		}
		div.AppendChild(&html.Node{Type: html.TextNode, Data: code.Text()})
		pre := code.Parent().Nodes[0]
		pre.Parent.InsertBefore(div, pre)
		pre.Parent.RemoveChild(pre)
	})
}
