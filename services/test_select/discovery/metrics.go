// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package discovery

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter for discovery.
var (
	tracer = otel.Tracer("select.discovery")
	meter  = otel.Meter("select.discovery")
)

// Metrics for assembly runs.
var (
	assembleLatency metric.Float64Histogram
	unitsTotal      metric.Int64Counter
	warningsTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		assembleLatency, err = meter.Float64Histogram(
			"select_assemble_duration_seconds",
			metric.WithDescription("Duration of workspace graph assembly"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		unitsTotal, err = meter.Int64Counter(
			"select_units_discovered_total",
			metric.WithDescription("Total number of project and package units discovered"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		warningsTotal, err = meter.Int64Counter(
			"select_discovery_warnings_total",
			metric.WithDescription("Total number of non-fatal discovery warnings"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordAssembly records the metrics for one assembly run. Metric
// failures never affect the run itself.
func recordAssembly(ctx context.Context, projects, packages, warnings int, elapsed time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}
	assembleLatency.Record(ctx, elapsed.Seconds())
	unitsTotal.Add(ctx, int64(projects), metric.WithAttributes(attribute.String("kind", "project")))
	unitsTotal.Add(ctx, int64(packages), metric.WithAttributes(attribute.String("kind", "package")))
	warningsTotal.Add(ctx, int64(warnings))
}
