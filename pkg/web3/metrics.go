package web3

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	resolutionsTotal    *prometheus.CounterVec
	accountFetchesTotal *prometheus.CounterVec
	accounts            prometheus.Gauge
}

var (
	metricsInstance *Metrics
	once            sync.Once
)

func GetMetricsInstance(namespace string) *Metrics {
	once.Do(func() {
		metricsInstance = &Metrics{
			resolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Total number of provider resolutions by source and outcome",
			}, []string{"source", "status"}),
			accountFetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "account_fetches_total",
				Help:      "Total number of account list fetches by outcome",
			}, []string{"status"}),
			accounts: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "accounts",
				Help:      "Number of accounts exposed by the active handle",
			}),
		}

		prometheus.MustRegister(
			metricsInstance.resolutionsTotal,
			metricsInstance.accountFetchesTotal,
			metricsInstance.accounts,
		)
	})

	return metricsInstance
}

func (m *Metrics) ObserveResolution(source Source, status Status) {
	if m == nil || m.resolutionsTotal == nil {
		return
	}

	m.resolutionsTotal.WithLabelValues(string(source), string(status)).Inc()
}

func (m *Metrics) ObserveAccountFetch(count int, err error) {
	if m == nil || m.accountFetchesTotal == nil {
		return
	}

	if err != nil {
		m.accountFetchesTotal.WithLabelValues("error").Inc()

		return
	}

	m.accountFetchesTotal.WithLabelValues("success").Inc()
	m.accounts.Set(float64(count))
}
