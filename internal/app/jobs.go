package app

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/talkincode/jobdesk/internal/domain"
	"go.uber.org/zap"
)

const defaultSweepWorkers = 8

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	a.sched = cron.New(cron.WithLocation(time.Local), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if expr := a.appConfig.System.OverdueCron; expr != "" {
		_, err = a.sched.AddFunc(expr, a.SchedOverdueTask)
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// SchedOverdueTask overdue sweep
func (a *Application) SchedOverdueTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	n, err := a.SweepOverdue(ctx)
	if err != nil {
		zap.L().Error("overdue sweep failed", zap.Int("marked", n), zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("overdue sweep", zap.Int("marked", n))
	}
}

// SweepOverdue moves Scheduled jobs dated before today to Overdue.
func (a *Application) SweepOverdue(ctx context.Context) (int, error) {
	jobs, err := a.store.GetJobs(ctx)
	if err != nil {
		return 0, err
	}
	today := domain.Today(time.Now())
	var due []domain.Job
	for _, j := range jobs {
		if j.Status == domain.JobScheduled && !j.ScheduledDate.IsZero() && j.ScheduledDate.Before(today) {
			due = append(due, j)
		}
	}
	if len(due) == 0 {
		return 0, nil
	}

	workers := defaultSweepWorkers
	if a.appConfig != nil && a.appConfig.System.SweepWorkers > 0 {
		workers = a.appConfig.System.SweepWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return 0, errors.Wrap(err, "sweep pool")
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		marked   int64
		failures int64
	)
	overdue := domain.JobOverdue
	for _, j := range due {
		id := j.ID
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if _, err := a.store.UpdateJob(ctx, id, domain.JobPatch{Status: &overdue}); err != nil {
				atomic.AddInt64(&failures, 1)
				zap.L().Warn("failed to mark job overdue", zap.String("job", id), zap.Error(err))
				return
			}
			atomic.AddInt64(&marked, 1)
		}); err != nil {
			wg.Done()
			atomic.AddInt64(&failures, 1)
		}
	}
	wg.Wait()

	n := int(atomic.LoadInt64(&marked))
	a.metrics.OverdueMarked(n)
	if failures > 0 {
		return n, errors.Errorf("%d of %d jobs not updated", failures, len(due))
	}
	return n, nil
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		a.metrics.SetGauge("system_cpuuse", _cpuuse[0])
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		a.metrics.SetGauge("system_memuse_mb", float64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		a.metrics.SetGauge("process_cpuuse", cpuuse)
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		a.metrics.SetGauge("process_memuse_mb", float64(meminfo.RSS/1024/1024))
	}
}
