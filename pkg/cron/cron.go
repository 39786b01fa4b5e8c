package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/safe"
	robfig "github.com/robfig/cron/v3"
)

const lockPrefix = "quizhub:cron:lock:"

var ErrJobExists = errors.New("cron job already exists")

// Locker is the distributed mutual exclusion a job run must hold.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// MetricsRecorder receives job run observations.
type MetricsRecorder interface {
	RecordJobRun(jobName string, duration time.Duration, err error)
	UpdateNextRun(jobName string, nextRun time.Time)
	UpdateJobsCount(count int)
}

var (
	recorderMu sync.RWMutex
	recorder   MetricsRecorder
)

// SetMetricsRecorder installs the recorder used by every Cron.
func SetMetricsRecorder(r MetricsRecorder) {
	recorderMu.Lock()
	recorder = r
	recorderMu.Unlock()
}

func getRecorder() MetricsRecorder {
	recorderMu.RLock()
	defer recorderMu.RUnlock()
	return recorder
}

type options struct {
	location *time.Location
	locker   Locker
	lockTTL  time.Duration
}

type OpOption func(*options)

// WithLocation evaluates specs in loc.
func WithLocation(loc *time.Location) OpOption {
	return func(o *options) { o.location = loc }
}

// WithLocker makes every run hold a lock named after the job, so only
// one instance runs a given tick.
func WithLocker(l Locker, ttl time.Duration) OpOption {
	return func(o *options) {
		o.locker = l
		o.lockTTL = ttl
	}
}

// Cron schedules named jobs with a seconds field. Runs of the same job never
// overlap: a tick arriving while the previous run is in progress is skipped.
type Cron struct {
	c    *robfig.Cron
	opts options

	mu      sync.Mutex
	entries map[string]robfig.EntryID
}

func New(opts ...OpOption) *Cron {
	o := options{location: time.Local, lockTTL: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}

	logger := cronLogger{}
	return &Cron{
		c: robfig.New(
			robfig.WithSeconds(),
			robfig.WithLocation(o.location),
			robfig.WithLogger(logger),
			robfig.WithChain(robfig.Recover(logger), robfig.SkipIfStillRunning(logger)),
		),
		opts:    o,
		entries: make(map[string]robfig.EntryID),
	}
}

// Location returns the zone specs are evaluated in.
func (c *Cron) Location() *time.Location {
	return c.opts.location
}

// AddFunc registers cmd under name.
func (c *Cron) AddFunc(spec, name string, cmd func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrJobExists, name)
	}
	eid, err := c.c.AddFunc(spec, c.wrap(name, cmd))
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	c.entries[name] = eid
	c.updateJobsCount()
	log.Infow("cron job registered", "name", name, "spec", spec, "location", c.opts.location.String())
	return nil
}

// Remove unregisters a job by name.
func (c *Cron) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	eid, ok := c.entries[name]
	if !ok {
		return fmt.Errorf("cron job not found: %s", name)
	}
	c.c.Remove(eid)
	delete(c.entries, name)
	c.updateJobsCount()
	return nil
}

// Names lists registered job names.
func (c *Cron) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}
	return names
}

// Next returns the next activation of a job, zero when unknown.
func (c *Cron) Next(name string) time.Time {
	c.mu.Lock()
	eid, ok := c.entries[name]
	c.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return c.c.Entry(eid).Next
}

func (c *Cron) Start() {
	c.c.Start()
}

// Stop stops scheduling and waits for running jobs to finish.
func (c *Cron) Stop() {
	<-c.c.Stop().Done()
}

// wrap adds locking, panic containment and metrics around cmd.
func (c *Cron) wrap(name string, cmd func()) func() {
	return func() {
		if c.opts.locker != nil {
			release, ok, err := c.opts.locker.TryLock(context.Background(), lockPrefix+name, c.opts.lockTTL)
			if err != nil {
				log.Errorw("cron lock failed", "name", name, "error", err)
				return
			}
			if !ok {
				log.Debugw("cron job is running elsewhere, skip", "name", name)
				return
			}
			defer release()
		}

		start := time.Now()
		err := safe.Do(cmd)
		if r := getRecorder(); r != nil {
			r.RecordJobRun(name, time.Since(start), err)
			r.UpdateNextRun(name, c.Next(name))
		}
	}
}

func (c *Cron) updateJobsCount() {
	if r := getRecorder(); r != nil {
		r.UpdateJobsCount(len(c.entries))
	}
}

// cronLogger adapts robfig's logger to the zap global.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Errorw(msg, append(keysAndValues, "error", err)...)
}
