package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/deepgram/assistant/internal/domain/shell"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"home", "chat", "create", "assistant"}

type renderer struct {
	templates map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		"markdown": RenderMarkdown,
	}

	r := &renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.templates[page] = tmpl
	}
	return r, nil
}

// view is what every page template receives.
type view struct {
	Layout        shell.Layout
	Nav           []shell.NavItem
	RecentChats   []shell.RecentChat
	Features      []shell.Feature
	Notifications []shell.Notification
	Toast         *shell.Toast
	Error         string
	Data          interface{}
}

func newView(r *http.Request, tab shell.Tab, data interface{}) *view {
	layout := shell.NewLayout(tab, shell.IsMobileUserAgent(r.UserAgent())).
		WithSidebar(r.URL.Query().Get("sidebar"))

	return &view{
		Layout:        layout,
		Nav:           shell.NavItems(tab),
		RecentChats:   shell.RecentChats,
		Features:      shell.Features,
		Notifications: shell.Notifications,
		Data:          data,
	}
}

// render executes page into a buffer first so template errors never leave
// a half-written response.
func (rd *renderer) render(w http.ResponseWriter, status int, page string, v *view) {
	tmpl, ok := rd.templates[page]
	if !ok {
		log.Error().Str("page", page).Msg("Unknown page template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		log.Error().Err(err).Str("page", page).Msg("Failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
