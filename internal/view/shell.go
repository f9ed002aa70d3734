package view

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/fleetconsole/internal/apiclient"
	"github.com/nfrund/fleetconsole/internal/domain"
	"github.com/nfrund/fleetconsole/internal/router"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// sessionScript reloads the page whenever the session stream reports a change.
const sessionScript = `(function(){var p=location.protocol==="https:"?"wss://":"ws://";` +
	`var ws=new WebSocket(p+location.host+"/ws/session");` +
	`ws.onmessage=function(){location.reload();};})();`

// Link is one navigation entry.
type Link struct {
	Name   string
	Title  string
	Path   string
	Active bool
}

// Page is everything the shell needs to render a view route.
type Page struct {
	App           string
	Title         string
	View          string
	Path          string
	Layouts       []string
	Authenticated bool
	User          domain.Profile
	Flashes       FlashData
	Nav           []Link
	LoginPath     string
	Content       templ.Component
}

// Title turns a route name such as "signal-controller-overview" into a
// display title. Unnamed routes fall back to the view name.
func Title(name, viewName string) string {
	label := name
	if label == "" {
		label = splitWords(strings.TrimSuffix(path.Base(viewName), "View"))
	}
	label = strings.ReplaceAll(label, "-", " ")
	return cases.Title(language.English).String(label)
}

func splitWords(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NavLinks lists the named view routes of table, marking current as active.
// The sign-in routes are left out.
func NavLinks(table *router.Table, current string) []Link {
	var links []Link
	for _, e := range table.Routes() {
		if e.Name == "" || e.IsRedirect() || e.Name == "login" || e.Name == "register" {
			continue
		}
		links = append(links, Link{
			Name:   e.Name,
			Title:  Title(e.Name, e.View),
			Path:   e.Path,
			Active: e.Path == current,
		})
	}
	return links
}

// Shell renders the full HTML page for a view route.
func Shell(ctx context.Context, p Page) templ.Component {
	content := g.Node(h.P(h.Class("text-gray-500"), g.Textf("%s is served by the console frontend.", p.View)))
	if p.Content != nil {
		content = AdaptTemplToGomponent(ctx, p.Content)
	}

	return AdaptGomponentToTempl(h.Doctype(
		h.HTML(h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(p.Title+" - "+p.App)),
				h.Script(h.Src(htmxSrc)),
			),
			h.Body(hx.Boost("true"),
				h.Header(h.Class("flex justify-between p-4 border-b"),
					h.Nav(h.Ul(g.Map(p.Nav, navItem))),
					authBox(p),
				),
				flashBox(p.Flashes),
				h.Main(h.ID("view"), h.DataAttr("view", p.View), h.DataAttr("path", p.Path),
					g.If(len(p.Layouts) > 0, h.DataAttr("layouts", strings.Join(p.Layouts, " "))),
					h.H1(g.Text(p.Title)),
					content,
				),
				h.Script(g.Raw(sessionScript)),
			),
		),
	))
}

func navItem(l Link) g.Node {
	return h.Li(
		h.A(h.Href(l.Path), g.Text(l.Title),
			g.If(l.Active, h.Aria("current", "page")),
		),
	)
}

func authBox(p Page) g.Node {
	if p.Authenticated {
		return h.Div(h.ID("auth"),
			h.Span(g.Text("Signed in as "+p.User.String())),
			h.Form(h.Method("post"), h.Action("/logout"),
				h.Button(h.Type("submit"), hx.Confirm("Log out?"), g.Text("Log out")),
			),
		)
	}
	if p.LoginPath == "" {
		return h.Div(h.ID("auth"))
	}
	return h.Div(h.ID("auth"), h.A(h.Href(p.LoginPath), g.Text("Log in")))
}

func flashBox(f FlashData) g.Node {
	if f.Empty() {
		return nil
	}
	return h.Section(h.ID("flash"),
		g.Map(f.Success, func(msg string) g.Node {
			return h.P(h.Class("flash-success"), g.Text(msg))
		}),
		g.Map(f.Error, func(msg string) g.Node {
			return h.P(h.Class("flash-error"), g.Text(msg))
		}),
	)
}

// AuthForm is the data behind the login and register forms.
type AuthForm struct {
	Action    string
	Username  string
	AltPath   string
	AltLabel  string
	WithEmail bool
}

// CredentialsForm renders a sign-in or registration form.
func CredentialsForm(f AuthForm) templ.Component {
	return AdaptGomponentToTempl(h.Form(h.Method("post"), h.Action(f.Action),
		field("username", "text", f.Username),
		g.If(f.WithEmail, field("email", "email", "")),
		field("password", "password", ""),
		h.Button(h.Type("submit"), g.Text("Submit")),
		g.If(f.AltPath != "", h.A(h.Href(f.AltPath), g.Text(f.AltLabel))),
	))
}

// ProfileForm renders the editable scalar fields of a profile.
func ProfileForm(user domain.Profile) templ.Component {
	keys := make([]string, 0, len(user))
	for k, v := range user {
		switch v.(type) {
		case string, float64, bool:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return AdaptGomponentToTempl(h.Form(h.Method("post"), h.Action("/profile"),
		g.Map(keys, func(k string) g.Node {
			return field(k, "text", fmt.Sprint(user[k]))
		}),
		h.Button(h.Type("submit"), g.Text("Save")),
	))
}

func field(name, kind, value string) g.Node {
	return h.Div(
		h.Label(h.For(name), g.Text(Title(name, ""))),
		h.Input(h.ID(name), h.Name(name), h.Type(kind), g.If(value != "", h.Value(value))),
	)
}

// OverviewPanel renders the home summary counters.
func OverviewPanel(o *apiclient.Overview) templ.Component {
	stat := func(label string, n int) g.Node {
		return h.Div(h.Class("stat"),
			h.Span(h.Class("stat-value"), g.Textf("%d", n)),
			h.Span(h.Class("stat-label"), g.Text(label)),
		)
	}
	return AdaptGomponentToTempl(h.Section(h.ID("overview"),
		stat("Devices", o.DeviceCount),
		stat("Modal types", o.ModalTypes),
		stat("Security events", o.SecurityEvents),
		stat("Dispatch tasks", o.DispatchTasks),
	))
}
