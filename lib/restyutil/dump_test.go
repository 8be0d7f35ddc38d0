package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Served-By", "test")
		w.Write([]byte("<p>" + r.Method + "</p>"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dumps")
	output, err := NewDirectoryOutput(dir)
	require.NoError(t, err)

	client := resty.New()
	Dump(client, output)

	_, err = client.R().Get(server.URL)
	require.NoError(t, err)
	_, err = client.R().SetFormData(map[string]string{"input_32": "Yes"}).Post(server.URL)
	require.NoError(t, err)

	get, err := os.ReadFile(filepath.Join(dir, "0001-GET.txt"))
	require.NoError(t, err)
	require.Contains(t, string(get), "GET "+server.URL)
	require.Contains(t, string(get), "X-Served-By: test")
	require.Contains(t, string(get), "<p>GET</p>")

	post, err := os.ReadFile(filepath.Join(dir, "0002-POST.txt"))
	require.NoError(t, err)
	require.Contains(t, string(post), "input_32=Yes")
	require.Contains(t, string(post), "<p>POST</p>")
}

func TestFormatHeaders(t *testing.T) {
	require.Equal(t, "", formatHeaders(http.Header{}))
	require.Equal(t, "A: 1\nB: 2\nB: 3", formatHeaders(http.Header{"B": {"2", "3"}, "A": {"1"}}))
}
