package workers

import (
	"context"
	"log/slog"
	"market-lab/domain/event"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

const DefaultReportInterval = time.Minute

type presence interface {
	ConnectedUsers() int
}

// ReporterWorker periodically logs the health of the live delivery path
// next to the process footprint.
type ReporterWorker struct {
	log      *slog.Logger
	presence presence
	events   chan event.DomainEvent
	interval time.Duration
}

func NewReporterWorker(log *slog.Logger, presence presence, events chan event.DomainEvent, interval time.Duration) *ReporterWorker {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	return &ReporterWorker{log: log, presence: presence, events: events, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.report(p)
		}
	}
}

func (w *ReporterWorker) report(p *process.Process) {
	attrs := []any{
		"connected_users", w.presence.ConnectedUsers(),
		"event_backlog", len(w.events),
		"event_capacity", cap(w.events),
	}
	rss, cpu, status, err := selfStats(p)
	if err != nil {
		w.log.Warn("Failed to collect self stats", "error", err)
	} else {
		attrs = append(attrs, "rss_mb", rss/1024/1024, "cpu_percent", cpu, "status", status)
	}
	w.log.Info("📊 Runtime report", attrs...)
}

// selfStats retrieves memory, CPU and OS status for the given process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
