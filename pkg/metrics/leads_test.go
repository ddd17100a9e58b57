package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestLeadMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.IncSubmission("shop", OutcomeAccepted)
	m.IncSubmission("shop", OutcomeAccepted)
	m.IncSubmission("contact", OutcomeInvalid)
	m.IncNotification("shop", "support", true)
	m.IncNotification("shop", "customer", false)
	m.ObserveInsert("shop", 20*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "lead_submissions_total", map[string]string{"source": "shop", "outcome": OutcomeAccepted}); err != nil {
		t.Fatalf("fetch submissions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 accepted shop submissions, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "lead_notifications_total", map[string]string{"recipient": "customer", "result": "failed"}); err != nil {
		t.Fatalf("fetch notifications: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 failed customer notification, got %f", got)
	}

	mf := findMetricFamily(mfs, "lead_insert_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleSum() <= 0 {
		t.Fatal("expected insert duration to be observed")
	}
}

func TestLeadMetricsNilRegistererIsNoop(t *testing.T) {
	m := NewLeadMetrics(nil)
	m.IncSubmission("shop", OutcomeFailed)
	m.IncNotification("shop", "support", false)
	m.ObserveInsert("shop", time.Second)

	var nilMetrics *LeadMetrics
	nilMetrics.IncSubmission("shop", OutcomeFailed)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == name && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
