package rendering

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/fleetconsole/internal/view"
)

func TestUniversalRenderer(t *testing.T) {
	r := NewUniversalRenderer()
	node := h.P(g.Text("hello"))

	t.Run("gomponents node", func(t *testing.T) {
		out, err := r.RenderComponent(context.Background(), node)
		require.NoError(t, err)
		assert.Equal(t, "<p>hello</p>", string(out))
	})

	t.Run("templ component", func(t *testing.T) {
		out, err := r.RenderComponent(context.Background(), view.AdaptGomponentToTempl(node))
		require.NoError(t, err)
		assert.Equal(t, "<p>hello</p>", string(out))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := r.RenderComponent(context.Background(), 42)
		assert.Error(t, err)
	})

	t.Run("echo render", func(t *testing.T) {
		e := echo.New()
		e.Renderer = r
		e.GET("/", func(c echo.Context) error {
			return c.Render(http.StatusCreated, "", node)
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "<p>hello</p>", rec.Body.String())
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	})

	t.Run("render page", func(t *testing.T) {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, r.RenderPage(c, http.StatusOK, node))
		assert.Equal(t, "<p>hello</p>", rec.Body.String())
	})
}
