package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qiitawatch/internal/adapter/logging"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>Go generics in practice</title><style>body{}</style></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>Go generics in practice</h1>
<p>Type parameters landed in Go 1.18 and changed how libraries are written. This article walks through
several real examples where generics remove duplicated code, and a few where they make things worse.</p>
<p>We start with a simple Map function, move on to constraint interfaces, and finish with a generic
pagination merger that keeps a collection sorted while pages arrive out of order.</p>
<p>Each section includes benchmarks so you can judge the trade-offs for your own code base.</p>
</article>
</body></html>`

func TestPreviewExtractsArticleText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	p, err := New(time.Second, logging.New(nil)).Preview(context.Background(), srv.URL+"/items/1")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/items/1", p.URL)
	assert.Contains(t, p.Text, "Type parameters landed in Go 1.18")
	assert.NotContains(t, p.Text, "body{}")
}

func TestPreviewStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(time.Second, logging.New(nil)).Preview(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestHTMLToText(t *testing.T) {
	t.Parallel()

	got := collapseBlankLines(htmlToText(`<div><script>x()</script><p>one</p><p>two<br>three</p><ul><li>a</li><li>b</li></ul></div>`))
	assert.Equal(t, "one\n\ntwo\nthree\n\na\n\nb", got)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("あ", 20)
	assert.Equal(t, strings.Repeat("あ", 7)+"...", truncate(long, 10))
}
