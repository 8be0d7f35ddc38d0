package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"
)

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	lines := []string{}
	for _, k := range keys {
		for _, v := range headers[k] {
			lines = append(lines, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(lines, "\n")
}

func formatRequestBody(req *http.Request) string {
	if req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	readBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return string(readBody)
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: request body
// 5: response status
// 6: response headers in ("Key: Value" format)
// 7: response body
const exchangeTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s

%s

%s`

// FormatExchange renders a request and its response as plain text, the
// body is the raw (still compressed when brotli) response body.
func FormatExchange(res *resty.Response) string {
	var requestHeaders, requestBody string
	if raw := res.Request.RawRequest; raw != nil {
		requestHeaders = formatHeaders(raw.Header)
		requestBody = formatRequestBody(raw)
	}

	return fmt.Sprintf(
		exchangeTemplate,

		res.Request.Method, res.Request.URL,
		requestHeaders,
		requestBody,

		res.Status(),
		formatHeaders(res.Header()),
		string(res.Body()),
	)
}
