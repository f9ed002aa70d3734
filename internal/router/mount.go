package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Registrar is the subset of *echo.Echo and *echo.Group that Mount needs.
type Registrar interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// ViewHandler builds the handler serving a view entry.
type ViewHandler func(Entry) echo.HandlerFunc

// Mount registers every entry of table on r. View entries are served by
// view; redirect entries answer 302 with the resolved target path.
func Mount(r Registrar, table *Table, view ViewHandler, m ...echo.MiddlewareFunc) error {
	for _, e := range table.Routes() {
		if e.IsRedirect() {
			target, err := table.Resolve(e.Path)
			if err != nil {
				return err
			}
			dest := target.Entry.Path
			r.GET(e.Path, func(c echo.Context) error {
				return c.Redirect(http.StatusFound, dest)
			}, m...)
			continue
		}
		r.GET(e.Path, view(e), m...)
	}
	return nil
}
