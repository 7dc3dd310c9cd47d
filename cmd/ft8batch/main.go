// Command ft8batch drives the batch FT8/FT4 decoder: it polls a spool
// directory for recordings, decodes each buffer with internal/ft8, and
// writes one formatted line per decoded message to stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/spf13/pflag"

	"github.com/ka9q/ft8-lib/internal/config"
	"github.com/ka9q/ft8-lib/internal/ft8"
	"github.com/ka9q/ft8-lib/internal/metrics"
	"github.com/ka9q/ft8-lib/internal/spool"
	"github.com/ka9q/ft8-lib/internal/wavio"
)

const version = "v0.1.0"

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "YAML configuration file (overrides built-in defaults)")
		spoolDir   = pflag.String("spool-dir", "", "override spool.dir from the config file")
		once       = pflag.Bool("once", false, "scan the spool once and exit instead of polling forever")
		showVer    = pflag.BoolP("version", "v", false, "print version and exit")
	)
	pflag.Parse()

	if *showVer {
		fmt.Printf("ft8batch %s\n", version)
		return
	}

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "ft8batch",
	})

	cfg := config.Default(ft8.ProtocolFT8)
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal("loading config", "err", err)
		}
		cfg = loaded
	}
	if *spoolDir != "" {
		cfg.Spool.Dir = *spoolDir
	}

	runID := uuid.New()
	logger = logger.With("run_id", runID.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		var reg *prometheus.Registry
		collector, reg = metrics.New()
		go func() {
			if err := collector.Serve(ctx, cfg.MetricsAddr, reg); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	hashTable := ft8.NewCallsignHashTable(cfg.HashTableSize)
	ft8Cfg := cfg.ToFT8Config()

	reportResourceUsage(logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		default:
		}

		n, err := runOnce(ctx, cfg, ft8Cfg, hashTable, collector, logger)
		if err != nil {
			logger.Error("spool scan failed", "err", err)
		} else if n > 0 {
			logger.Info("decoded buffers", "count", n)
		}

		if *once {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(1 * time.Second):
		}
	}
}

// runOnce scans the spool directory once, decoding and emitting every
// recording it can lock, and returns how many it processed.
func runOnce(ctx context.Context, cfg config.Config, ft8Cfg ft8.Config, hashTable *ft8.CallsignHashTable, collector *metrics.Collector, logger *charmlog.Logger) (int, error) {
	entries, err := spool.Scan(cfg.Spool.Dir)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return processed, nil
		default:
		}

		lock, ok, err := spool.TryLock(entry.Path)
		if err != nil {
			logger.Warn("lock failed", "path", entry.Path, "err", err)
			continue
		}
		if !ok {
			continue
		}

		start := time.Now()
		lines, stats, err := decodeEntry(entry, cfg, ft8Cfg, hashTable, logger)
		if err != nil {
			logger.Warn("decode failed", "path", entry.Path, "err", err)
			lock.Release()
			continue
		}

		for _, line := range lines {
			fmt.Println(line)
		}

		if collector != nil {
			collector.BuffersDecoded.Inc()
			collector.MessagesEmitted.Add(float64(stats.MessagesEmitted))
			collector.CandidatesFound.Add(float64(stats.CandidatesFound))
			collector.LDPCFailures.Add(float64(stats.LDPCFailures))
			collector.CRCFailures.Add(float64(stats.CRCFailures))
			collector.Duplicates.Add(float64(stats.Duplicates))
			collector.DecodeDuration.Observe(time.Since(start).Seconds())
		}

		if cfg.Spool.DeleteOnDone {
			if err := lock.Done(entry.Path); err != nil {
				logger.Warn("spool cleanup failed", "path", entry.Path, "err", err)
			}
		} else {
			lock.Release()
		}

		processed++
	}

	return processed, nil
}

func decodeEntry(entry spool.Entry, cfg config.Config, ft8Cfg ft8.Config, hashTable *ft8.CallsignHashTable, logger *charmlog.Logger) ([]string, ft8.DecodeStats, error) {
	rec, err := wavio.ReadFile(entry.Path)
	if err != nil {
		return nil, ft8.DecodeStats{}, err
	}

	minSamples := entry.Protocol.MinSamples(rec.SampleRate)
	if len(rec.Samples) < minSamples {
		return nil, ft8.DecodeStats{}, fmt.Errorf("buffer too short: %d samples, need %d", len(rec.Samples), minSamples)
	}

	buf := ft8.Buffer{
		Signal:      rec.Samples,
		SampleRate:  rec.SampleRate,
		Protocol:    entry.Protocol,
		BaseFreqMHz: entry.BaseFreqMHz,
		SlotStart:   entry.SlotStart,
		Fractional:  0,
	}

	lines, stats := ft8.Decode(buf, ft8Cfg, hashTable, logger)
	return lines, stats, nil
}

// reportResourceUsage logs the host's CPU core count at startup, the same
// gopsutil cpu.Info() call the teacher's load_history.go and
// instance_reporter.go use to size their own load-tracking.
func reportResourceUsage(logger *charmlog.Logger) {
	info, err := cpu.Info()
	if err != nil {
		logger.Warn("reading cpu info", "err", err)
		return
	}

	cores := 0
	for _, c := range info {
		cores += int(c.Cores)
	}
	logger.Info("startup resource snapshot", "cpu_cores", cores)
}
