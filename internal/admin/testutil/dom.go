package testutil

import (
	"io"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// ParseHTML parses a response body into a queryable document.
func ParseHTML(t *testing.T, body io.Reader) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(body)
	require.NoError(t, err)
	return doc
}

// Text returns the trimmed text of the first node matching the selector,
// failing the test when the node is absent.
func Text(t *testing.T, doc *goquery.Document, selector string) string {
	t.Helper()

	sel := doc.Find(selector)
	require.Positive(t, sel.Length(), "selector %q matched nothing", selector)
	return strings.TrimSpace(sel.First().Text())
}
