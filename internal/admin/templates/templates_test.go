package templates

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"elamli.org/elamli-admin/internal/admin/orders"
)

func TestNewParsesAllTemplates(t *testing.T) {
	t.Parallel()

	_, err := New()
	require.NoError(t, err)
}

func TestRenderLoginPage(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.RenderPage(&buf, "login", map[string]any{
		"Title":     "Sign in",
		"BasePath":  "/admin",
		"CSRFToken": "tok",
		"Email":     "admin@example.com",
		"Error":     "Invalid email or password.",
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Invalid email or password.")
	require.Contains(t, buf.String(), `action="/admin/login"`)
}

func TestRenderOrdersTableFragment(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.RenderFragment(&buf, "orders_table", map[string]any{
		"Orders": []orders.Order{{
			ID:           "o1",
			ProductName:  "Bag",
			FullName:     "Amina",
			City:         "Rabat",
			ProductPrice: 39.99,
			Status:       orders.StatusPending,
		}},
		"Pagination": orders.Pagination{Page: 1, PageSize: 10, TotalItems: 1, TotalPages: 1, From: 1, To: 1},
		"Statuses":   orders.AllStatuses,
		"Search":     "",
		"Status":     "all",
		"BasePath":   "/admin",
		"CSRFToken":  "tok",
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), `data-order-id="o1"`)
	require.Contains(t, buf.String(), "$39.99")
	require.NotContains(t, buf.String(), "<html")
}

func TestRenderUnknownPage(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	require.Error(t, r.RenderPage(&bytes.Buffer{}, "nope", nil))
	require.Error(t, r.RenderFragment(&bytes.Buffer{}, "nope", nil))
}
