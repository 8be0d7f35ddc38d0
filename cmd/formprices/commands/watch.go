package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"formprices/internal/components/chrono"
	"formprices/internal/components/telemetry"
	"formprices/internal/snapshots"

	"github.com/spf13/cobra"
)

const (
	report_watch_extract = "watch.extract"
	report_watch_push    = "watch.push"
	report_watch_skip    = "watch.skip"
)

var (
	watchCron *string
	watchDb   *string
	watchNow  *bool
)

func init() {
	flags := watchCmd.Flags()
	watchCron = flags.String("cron", "", "Cron schedule of the scrapes, in Europe/London time (default: watch.cron from the config).")
	watchDb = flags.String("db", "", "Sqlite file or libsql url to record snapshots in (default: snapshots from the config).")
	watchNow = flags.Bool("now", false, "Also scrape once right away.")
	rootCmd.AddCommand(watchCmd)
}

// snapshotJob scrapes once and records the result, failures are reported
// and the next run goes ahead as scheduled. A run that starts while another
// is still going is skipped, whether it came from the schedule or --now.
type snapshotJob struct {
	s       *state
	store   snapshots.Store
	time    chrono.TimeAPI
	timeout time.Duration
	running *sync.Mutex
}

func (j snapshotJob) run(ctx context.Context) {
	if !j.running.TryLock() {
		j.s.Tel.ReportDebug(report_watch_skip, "previous run still going")
		return
	}
	defer j.running.Unlock()

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	res, err := j.s.Extractor.Extract(ctx, j.s.Url)
	if err != nil {
		j.s.Tel.ReportBroken(report_watch_extract, err, j.s.Url)
		return
	}
	err = j.store.Push(ctx, j.time.Now(), res.Products)
	if err != nil {
		j.s.Tel.ReportBroken(report_watch_push, err)
		return
	}
	slog.Info("recorded snapshot", "products", len(res.Products))
}

var watchCmd = &cobra.Command{
	Use:   "watch [--cron \"0 9 * * *\"] [--db prices.db] [--now]",
	Short: "Scrapes on a schedule and records a price snapshot every run.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := getState(ctx)

		schedule := s.Config.Watch.Cron
		if *watchCron != "" {
			schedule = *watchCron
		}
		dbConfig := snapshotConfig(s, *watchDb)
		if !dbConfig.Configured() {
			return errors.New("watch needs somewhere to record snapshots, pass --db or set snapshots in the config")
		}

		store, err := snapshots.Open(dbConfig, s.Tel)
		if err != nil {
			return err
		}
		defer store.Close()

		if s.Config.Telemetry.Enabled() {
			telemetry.InstrumentPerfStats(ctx, 15*time.Second)
		}

		job := snapshotJob{
			s:       s,
			store:   store,
			time:    chrono.NewStandardTime(),
			timeout: 2 * time.Minute,
			running: &sync.Mutex{},
		}

		cron := chrono.NewStandardCron(s.Tel)
		err = cron.Cron(schedule, func() { job.run(ctx) })
		if err != nil {
			cron.Stop()
			return err
		}
		slog.Info("watching", "url", s.Url, "cron", schedule)

		if *watchNow {
			job.run(ctx)
		}

		<-ctx.Done()
		slog.Info("stopping, waiting for the running scrape")
		cron.Stop()
		return nil
	},
}
