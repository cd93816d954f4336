// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Metric) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestObserveBuildRecordsUnderOutcomeLabel(t *testing.T) {
	h := BuildDuration.WithLabelValues("complete").(prometheus.Metric)
	before := histogramCount(t, h)

	ObserveBuild("complete", 3*time.Second)

	if got := histogramCount(t, h); got != before+1 {
		t.Fatalf("sample count = %d, want %d", got, before+1)
	}
}

func TestObserveQueryRecordsDurationAndPageSize(t *testing.T) {
	h := QueryDuration.WithLabelValues("forward").(prometheus.Metric)
	durBefore := histogramCount(t, h)
	rowsBefore := histogramCount(t, QueryRowsReturned)

	ObserveQuery("forward", 20*time.Millisecond, 50)

	if got := histogramCount(t, h); got != durBefore+1 {
		t.Fatalf("duration sample count = %d, want %d", got, durBefore+1)
	}
	if got := histogramCount(t, QueryRowsReturned); got != rowsBefore+1 {
		t.Fatalf("rows sample count = %d, want %d", got, rowsBefore+1)
	}
}

func TestRegexRejectionCounterIncrements(t *testing.T) {
	c := RegexRejectionsTotal.WithLabelValues("denylist")
	before := counterValue(t, c)
	c.Inc()
	if got := counterValue(t, c); got != before+1 {
		t.Fatalf("counter = %v, want %v", got, before+1)
	}
}
