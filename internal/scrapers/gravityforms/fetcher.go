package gravityforms

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"mime"
	"strings"
	"time"

	"formprices/internal/components/assert"
	"formprices/internal/components/telemetry"
	"formprices/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	report_fetcher_simple_fetch  = "fetcher.simple-fetch"
	report_fetcher_post_fallback = "fetcher.post-fallback"
	report_fetcher_hidden_fields = "fetcher.hidden-fields"
	report_fetcher_dump          = "fetcher.dump"
)

const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptEncoding = "gzip, br"
)

var tracer = otel.Tracer("formprices.scrapers.gravityforms")

// FetchError is returned when a page could not be fetched or decoded.
type FetchError struct {
	Url string
	// Status is 0 when no response was received.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Url, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Url, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DefaultAnswers select the "Yes" branch of the two conditional questions on
// the repeat prescription form (dosage change, customer for over 12 months)
// and mark the POST as a submission of form 3.
func DefaultAnswers() map[string]string {
	return map[string]string{
		"input_32":     "Yes",
		"input_85":     "Yes",
		"gform_submit": "3",
		"is_submit_3":  "1",
	}
}

type FetcherOptions struct {
	// Timeout bounds each request, defaults to 20 seconds.
	Timeout time.Duration
	// Answers are the synthetic form answers sent with the POST, defaults to DefaultAnswers().
	Answers map[string]string
	// BypassCloudflare swaps in a TLS fingerprint that Cloudflare lets through.
	BypassCloudflare bool
	// RequestsPerSecond defaults to 2.
	RequestsPerSecond float64
	// DumpDir receives a text file per HTTP exchange when set.
	DumpDir string
}

// Fetcher retrieves form pages, see SimpleFetch and FormFetch.
type Fetcher struct {
	http    *resty.Client
	answers map[string]string
	tel     telemetry.API
}

func NewFetcher(tel telemetry.API, opts FetcherOptions) *Fetcher {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("gravityforms", tel)

	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.Answers == nil {
		opts.Answers = DefaultAnswers()
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", acceptHeader)
	client.SetHeader("Accept-Encoding", acceptEncoding)
	if opts.BypassCloudflare {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	// max burst >= 2 so the GET and POST of a form fetch go out back to back
	limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, tel)
	if opts.DumpDir != "" {
		output, err := restyutil.NewDirectoryOutput(opts.DumpDir)
		if err != nil {
			tel.ReportWarning(report_fetcher_dump, err)
		} else {
			restyutil.Dump(client, output)
		}
	}

	return &Fetcher{
		http:    client,
		answers: opts.Answers,
		tel:     tel,
	}
}

// decodeBody undoes brotli compression (gzip is already handled by resty)
// and converts the server declared charset to UTF-8. Bytes that do not
// decode are replaced with U+FFFD.
func decodeBody(body []byte, contentEncoding, contentType string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(contentEncoding), "br") {
		decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return "", fmt.Errorf("decode brotli body: %w", err)
		}
		body = decoded
	}

	label := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		label = params["charset"]
	}
	if label != "" {
		enc, name := charset.Lookup(label)
		if enc != nil && name != "utf-8" {
			decoded, err := enc.NewDecoder().Bytes(body)
			if err == nil {
				return string(decoded), nil
			}
		}
	}
	return strings.ToValidUTF8(string(body), "�"), nil
}

func (f *Fetcher) readResponse(target string, res *resty.Response) (string, error) {
	if !res.IsSuccess() {
		return "", &FetchError{
			Url:    target,
			Status: res.StatusCode(),
			Err:    fmt.Errorf("unexpected status %q", res.Status()),
		}
	}
	text, err := decodeBody(
		res.Body(),
		res.Header().Get("Content-Encoding"),
		res.Header().Get("Content-Type"),
	)
	if err != nil {
		return "", &FetchError{Url: target, Status: res.StatusCode(), Err: err}
	}
	return text, nil
}

// SimpleFetch GETs the page with browser-like headers.
func (f *Fetcher) SimpleFetch(ctx context.Context, target string) (string, error) {
	ctx, span := tracer.Start(ctx, "SimpleFetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", target))

	res, err := f.http.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", &FetchError{Url: target, Err: err}
	}

	text, err := f.readResponse(target, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad response")
		return "", err
	}
	f.tel.ReportDebug(report_fetcher_simple_fetch, target, len(text))
	return text, nil
}

// FormBody is the POST body of a form fetch: the synthetic answers with the
// harvested hidden fields on top.
func FormBody(answers map[string]string, hidden HiddenFields) map[string]string {
	body := make(map[string]string, len(answers)+len(hidden))
	maps.Copy(body, answers)
	maps.Copy(body, hidden)
	return body
}

func (f *Fetcher) postForm(ctx context.Context, target string) (string, error) {
	initial, err := f.SimpleFetch(ctx, target)
	if err != nil {
		return "", fmt.Errorf("harvest hidden fields: %w", err)
	}
	hidden := ExtractHiddenFields(initial)
	f.tel.ReportDebug(report_fetcher_hidden_fields, len(hidden))

	res, err := f.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetHeader("Referer", target).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetFormData(FormBody(f.answers, hidden)).
		Post(target)
	if err != nil {
		return "", &FetchError{Url: target, Err: err}
	}
	return f.readResponse(target, res)
}

// FormFetch replays the form with the conditional questions answered so the
// fields they reveal are rendered server side. Any failure along the way
// falls back to SimpleFetch, whose error is the only one returned.
func (f *Fetcher) FormFetch(ctx context.Context, target string) (string, error) {
	ctx, span := tracer.Start(ctx, "FormFetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", target))

	text, err := f.postForm(ctx, target)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", &FetchError{Url: target, Err: ctx.Err()}
	}

	span.AddEvent("post fallback")
	f.tel.ReportWarning(
		report_fetcher_post_fallback,
		fmt.Errorf("form POST failed, falling back to GET: %w", err),
		target,
	)
	return f.SimpleFetch(ctx, target)
}
