package commands

import (
	"os"
	"time"

	"formprices/internal/components/telemetry"
	"formprices/internal/scrapers/gravityforms"
	"formprices/lib/configutil"
	configlibsql "formprices/lib/configutil/libsql"
)

const (
	DefaultUrl        = "https://mamedica.co.uk/repeat-prescription/"
	DefaultConfigPath = "formprices.json5"
	urlEnv            = "FORMPRICES_URL"
)

type FormConfig struct {
	Url string `json:"url"`
	// Answers are POSTed alongside the hidden fields to reveal the
	// conditional product dropdowns.
	Answers          map[string]string `json:"answers"`
	FieldNames       []string          `json:"field_names"`
	FieldIds         []string          `json:"field_ids"`
	MarkerClass      string            `json:"marker_class"`
	PlaceholderClass string            `json:"placeholder_class"`
}

type FetchConfig struct {
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	BypassCloudflare  bool    `json:"bypass_cloudflare"`
	// DumpDir is where every HTTP exchange is written, for debugging.
	DumpDir string `json:"dump_dir"`
}

type WatchConfig struct {
	Cron string `json:"cron"`
}

type Config struct {
	Form      FormConfig          `json:"form"`
	Fetch     FetchConfig         `json:"fetch"`
	Snapshots configlibsql.Struct `json:"snapshots"`
	Watch     WatchConfig         `json:"watch"`
	Telemetry telemetry.Config    `json:"telemetry"`
}

func defaultConfig() Config {
	identity := gravityforms.DefaultIdentity()
	names := make([]string, 0, len(identity.Names))
	for n := range identity.Names {
		names = append(names, n)
	}
	ids := make([]string, 0, len(identity.Ids))
	for id := range identity.Ids {
		ids = append(ids, id)
	}

	return Config{
		Form: FormConfig{
			Url:              DefaultUrl,
			Answers:          gravityforms.DefaultAnswers(),
			FieldNames:       names,
			FieldIds:         ids,
			MarkerClass:      gravityforms.DefaultMarkerClass,
			PlaceholderClass: gravityforms.DefaultPlaceholderClass,
		},
		Fetch: FetchConfig{
			TimeoutSeconds:    20,
			RequestsPerSecond: 2,
		},
		Watch: WatchConfig{
			// 9am every day
			Cron: "0 9 * * *",
		},
	}
}

// LoadConfig reads path (and its .local override) on top of the defaults,
// FORMPRICES_URL then replaces the form url.
func LoadConfig(path string) (Config, error) {
	cfg, _, err := configutil.ReadConfig(path, defaultConfig())
	if err != nil {
		return Config{}, err
	}
	if url, ok := os.LookupEnv(urlEnv); ok && url != "" {
		cfg.Form.Url = url
	}
	return cfg, nil
}

func (c Config) Identity() gravityforms.FieldIdentity {
	return gravityforms.NewFieldIdentity(c.Form.FieldNames, c.Form.FieldIds)
}

func (c Config) FetcherOptions() gravityforms.FetcherOptions {
	return gravityforms.FetcherOptions{
		Timeout:           time.Duration(c.Fetch.TimeoutSeconds) * time.Second,
		Answers:           c.Form.Answers,
		BypassCloudflare:  c.Fetch.BypassCloudflare,
		RequestsPerSecond: c.Fetch.RequestsPerSecond,
		DumpDir:           c.Fetch.DumpDir,
	}
}
