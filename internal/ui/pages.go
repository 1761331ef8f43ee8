package ui

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"
)

// datastarCDN is the client runtime powering the live-update stream.
const datastarCDN = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

func pageHead(title string, withAppJS bool) Node {
	nodes := []Node{
		Meta(Charset("utf-8")),
		Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
		TitleEl(Text(title)),
		Link(Rel("icon"), Href("data:,")),
		Link(Rel("stylesheet"), Href("/assets/app.css")),
		Script(Type("module"), Src(datastarCDN)),
	}
	if withAppJS {
		nodes = append(nodes, Script(Src("/assets/app.js"), Defer()))
	}
	return Head(nodes...)
}

// indexPage is the figure listing. The whole page subscribes to /events;
// on a ping the server re-renders and patches #figure-list in place.
func indexPage(figures []figureEntry) Node {
	return Doctype(HTML(
		Lang("en"),
		pageHead("gridlens", false),
		Body(
			Attr("data-on-load", "@get('/events')"),
			Main(Class("shell"),
				Header(Class("topbar"),
					H1(Class("title"), Text("gridlens figures")),
					P(Class("muted"), Text("Figures rebuilt on disk show up here automatically.")),
				),
				Div(
					data.Signals(map[string]any{"q": ""}),
					Div(Class("card filter"),
						Label(Text("Quick filter")),
						Input(Type("search"), Placeholder("Filter by figure name"), data.Bind("q"), AutoComplete("off")),
					),
					figureListing(figures),
				),
			),
		),
	))
}

// figureListing is the patchable fragment the /events stream re-sends.
func figureListing(figures []figureEntry) Node {
	if len(figures) == 0 {
		return Div(ID("figure-list"), Class("card empty"),
			P(Text("No figures yet.")),
			P(Class("muted"), Text("Run gridlens heatmap or gridlens dist to build one.")),
		)
	}

	rows := make([]Node, 0, len(figures))
	for _, f := range figures {
		rows = append(rows, Tr(
			data.Show(containsExpr(f.Name)),
			Td(A(Href("/figures/"+url.PathEscape(f.Name)), Text(f.Name))),
			Td(Class("num"), Text(humanize.Bytes(uint64(f.Size)))),
			Td(Attr("title", f.ModTime.Format("2006-01-02 15:04:05")), Text(humanize.Time(f.ModTime))),
		))
	}

	return Div(ID("figure-list"), Class("card table-wrap"),
		Table(
			THead(Tr(Th(Text("Figure")), Th(Class("num"), Text("Size")), Th(Text("Modified")))),
			TBody(Group(rows)),
		),
	)
}

// viewerPage wraps one figure in an iframe with prev/next navigation.
// app.js reads the data-prev/data-next attributes for keyboard nav, and
// the per-figure /events subscription reloads the iframe on rebuild.
func viewerPage(name, prev, next string) Node {
	navNodes := []Node{A(Class("nav-link"), Href("/"), Text("All figures"))}
	if prev != "" {
		navNodes = append(navNodes, A(Class("nav-link"), Href("/figures/"+url.PathEscape(prev)), Text("← "+prev)))
	}
	if next != "" {
		navNodes = append(navNodes, A(Class("nav-link"), Href("/figures/"+url.PathEscape(next)), Text(next+" →")))
	}

	bodyAttrs := []Node{
		Attr("data-on-load", "@get('/events?fig="+url.QueryEscape(name)+"')"),
	}
	if prev != "" {
		bodyAttrs = append(bodyAttrs, Attr("data-prev", "/figures/"+url.PathEscape(prev)))
	}
	if next != "" {
		bodyAttrs = append(bodyAttrs, Attr("data-next", "/figures/"+url.PathEscape(next)))
	}

	return Doctype(HTML(
		Lang("en"),
		pageHead(name+" | gridlens", true),
		Body(append(bodyAttrs,
			Header(Class("viewer-bar"),
				H1(Class("title"), Text(name)),
				Nav(Class("viewer-nav"), Group(navNodes)),
				P(Class("muted kbd-hint"), Text("← → to switch figures, Esc for the index")),
			),
			IFrame(ID("figure-frame"), Class("viewer-frame"), Src("/raw/"+url.PathEscape(name)), Attr("title", name)),
		)...),
	))
}

// containsExpr builds the client-side filter expression for one row.
func containsExpr(value string) string {
	lower := strings.ToLower(value)
	return "$q === '' || " + strconv.Quote(lower) + ".includes($q.toLowerCase())"
}
