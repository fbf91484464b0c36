package api

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/AgentTarik/payments-dashboard/internal/checkout"
	"github.com/AgentTarik/payments-dashboard/internal/transaction"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names. Each one is parsed together with layout.html.
const (
	pageDashboard = "dashboard"
	pageCheckout  = "checkout"
	pageConfirm   = "confirm"
	pageDetail    = "detail"
)

var pageNames = []string{pageDashboard, pageCheckout, pageConfirm, pageDetail}

var templateFuncs = template.FuncMap{
	"badge":  transaction.BadgeFor,
	"symbol": func(c string) string { return checkout.Symbol(transaction.Currency(c)) },
	"when":   formatCreated,
}

// Renderer holds one template set per page so that every page can define its
// own "content" block.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) HTML(c *gin.Context, status int, page string, data any) {
	t, ok := r.pages[page]
	if !ok {
		c.String(http.StatusInternalServerError, "unknown page %q", page)
		return
	}
	c.Render(status, render.HTML{Template: t, Name: "layout", Data: data})
}

// formatCreated renders created_at for display; unparseable values are shown
// as received.
func formatCreated(tx transaction.Transaction) string {
	ts, ok := tx.CreatedTime()
	if !ok {
		return tx.CreatedAt
	}
	return ts.Format("Jan 2, 2006 15:04")
}
