package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentPerfStats records process gauges every interval until ctx is done.
// It is only worth calling in long running modes (watch).
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	meter := otel.Meter("formprices.perf_stats")
	cpuGauge, _ := meter.Float64Gauge("cpu_usage")
	memoryGauge, _ := meter.Int64Gauge("allocated_mb", metric.WithUnit("MB"))
	goroutineGauge, _ := meter.Int64Gauge("goroutine_count")

	go func() {
		var memStats runtime.MemStats
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)

				cpuUsage, err := cpu.PercentWithContext(ctx, 0, false)
				if err == nil && len(cpuUsage) > 0 {
					cpuGauge.Record(ctx, cpuUsage[0])
				} else if err != nil {
					slog.Debug("failed to read cpu usage", "err", err)
				}

				memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
				goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
			case <-ctx.Done():
				return
			}
		}
	}()
}
