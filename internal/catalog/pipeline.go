package catalog

import (
	"context"
	"errors"
	"fmt"

	"formprices/internal/components/assert"
	"formprices/internal/components/telemetry"
	"formprices/internal/scrapers/gravityforms"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	report_extractor_simple_retry   = "extractor.simple-retry"
	report_extractor_empty_result   = "extractor.empty-result"
	report_extractor_option_count   = "extractor.option-count"
	report_extractor_product_count  = "extractor.product-count"
	report_extractor_wildcard_retry = "extractor.wildcard-retry"
)

var tracer = otel.Tracer("formprices.catalog")

// ErrEmptyResult is returned when no products survived extraction, even
// after scanning every dropdown.
var ErrEmptyResult = errors.New("no products found, the target select field names may have changed (try --all-selects or the inspect command)")

// Fetcher is implemented by *gravityforms.Fetcher.
type Fetcher interface {
	FormFetch(ctx context.Context, url string) (string, error)
	SimpleFetch(ctx context.Context, url string) (string, error)
}

type Extractor struct {
	Fetcher   Fetcher
	Telemetry telemetry.API
	Identity  gravityforms.FieldIdentity
	// Wildcard scans every marked dropdown from the start.
	Wildcard bool
	// FlowerOnly drops products that are not flower.
	FlowerOnly bool
	// MarkerClass and PlaceholderClass are passed to the scanner, empty
	// means the Gravity Forms defaults.
	MarkerClass      string
	PlaceholderClass string
}

type Result struct {
	Products []Product
	// UsedWildcard is true when the products came from a wildcard scan.
	UsedWildcard bool
}

// scan returns the deduplicated options of the dropdowns in scope, before
// any product filter.
func (e Extractor) scan(document string, wildcard bool) []gravityforms.RawOption {
	options := gravityforms.ScanDocument(document, gravityforms.ScanOptions{
		Identity:         e.Identity,
		Wildcard:         wildcard,
		MarkerClass:      e.MarkerClass,
		PlaceholderClass: e.PlaceholderClass,
	})
	e.Telemetry.ReportCount(report_extractor_option_count, int64(len(options)))

	return Dedupe(options)
}

func (e Extractor) products(options []gravityforms.RawOption) []Product {
	return Order(Select(Enrich(options), e.FlowerOnly))
}

// Extract runs fetch, scan, dedupe, enrich, filter and sort for a single
// page. The POSTed form is scanned first, the plain page when the POST
// yields nothing. When a targeted scan finds nothing the fetched documents
// are scanned once more with every marked dropdown in scope.
func (e Extractor) Extract(ctx context.Context, url string) (Result, error) {
	assert.NotNil(e.Fetcher)
	assert.NotNil(e.Telemetry)

	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()
	span.SetAttributes(
		attribute.String("url", url),
		attribute.Bool("wildcard", e.Wildcard),
	)

	document, err := e.Fetcher.FormFetch(ctx, url)
	if err != nil {
		return Result{}, err
	}
	documents := []string{document}
	options := e.scan(document, e.Wildcard)

	// the plain page is only tried when the form yielded no options at all
	if len(options) == 0 {
		e.Telemetry.ReportDebug(report_extractor_simple_retry, url)
		plain, err := e.Fetcher.SimpleFetch(ctx, url)
		if err != nil {
			e.Telemetry.ReportWarning(
				report_extractor_simple_retry,
				fmt.Errorf("plain fetch after empty form fetch: %w", err),
			)
		} else {
			documents = append(documents, plain)
			options = e.scan(plain, e.Wildcard)
		}
	}
	products := e.products(options)

	usedWildcard := e.Wildcard
	if len(products) == 0 && !e.Wildcard {
		e.Telemetry.ReportWarning(report_extractor_empty_result, ErrEmptyResult)
		e.Telemetry.ReportDebug(report_extractor_wildcard_retry, len(documents))
		for _, doc := range documents {
			products = e.products(e.scan(doc, true))
			if len(products) > 0 {
				break
			}
		}
		usedWildcard = true
	}

	span.SetAttributes(
		attribute.Int("products", len(products)),
		attribute.Bool("used_wildcard", usedWildcard),
	)
	if len(products) == 0 {
		return Result{UsedWildcard: usedWildcard}, ErrEmptyResult
	}
	e.Telemetry.ReportCount(report_extractor_product_count, int64(len(products)))

	return Result{
		Products:     products,
		UsedWildcard: usedWildcard,
	}, nil
}
