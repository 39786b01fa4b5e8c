// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"time"

	"github.com/go-arcade/quizhub/pkg/cron"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CronJobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizhub_cron_job_runs_total",
			Help: "Total number of cron job runs",
		},
		[]string{"job_name"},
	)

	CronJobRunDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizhub_cron_job_run_duration_seconds",
			Help:    "Duration of cron job runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		},
		[]string{"job_name"},
	)

	CronJobErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizhub_cron_job_errors_total",
			Help: "Total number of cron job runs that failed or panicked",
		},
		[]string{"job_name"},
	)

	CronJobNextRunTime = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quizhub_cron_job_next_run_time_seconds",
			Help: "Next scheduled run time of cron job in seconds since epoch",
		},
		[]string{"job_name"},
	)

	CronJobsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quizhub_cron_jobs_total",
			Help: "Total number of registered cron jobs",
		},
	)
)

// CronMetricsRecorder implements cron.MetricsRecorder
type CronMetricsRecorder struct{}

func (CronMetricsRecorder) RecordJobRun(jobName string, duration time.Duration, err error) {
	if err != nil {
		CronJobErrorsTotal.WithLabelValues(jobName).Inc()
	}
	CronJobRunsTotal.WithLabelValues(jobName).Inc()
	CronJobRunDurationSeconds.WithLabelValues(jobName).Observe(duration.Seconds())
}

func (CronMetricsRecorder) UpdateNextRun(jobName string, nextRun time.Time) {
	if !nextRun.IsZero() {
		CronJobNextRunTime.WithLabelValues(jobName).Set(float64(nextRun.Unix()))
	}
}

func (CronMetricsRecorder) UpdateJobsCount(count int) {
	CronJobsTotal.Set(float64(count))
}

func cronCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		CronJobRunsTotal,
		CronJobRunDurationSeconds,
		CronJobErrorsTotal,
		CronJobNextRunTime,
		CronJobsTotal,
	}
}

// SetupCronMetrics installs the recorder into pkg/cron.
func SetupCronMetrics() {
	cron.SetMetricsRecorder(CronMetricsRecorder{})
}
