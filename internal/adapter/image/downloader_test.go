package image

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qiitawatch/internal/adapter/logging"
)

func TestDownload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG"))
	}))
	defer srv.Close()

	d := New(time.Second, logging.New(nil))

	data, err := d.Download(context.Background(), srv.URL+"/icon.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data)

	_, err = d.Download(context.Background(), srv.URL+"/missing.png")
	require.Error(t, err)
}
