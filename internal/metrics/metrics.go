package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/selendra/did-wallet/internal/config"
)

const namespace = "did_wallet"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Service holds the wallet collectors. All methods are safe on a nil *Service.
type Service struct {
	Registry *prometheus.Registry

	unlockTotal   *prometheus.CounterVec
	unlockSeconds prometheus.Histogram
	bindTotal     *prometheus.CounterVec
	bindSeconds   prometheus.Histogram
	vaultOpsTotal *prometheus.CounterVec
	locked        prometheus.Gauge
}

// New registers the collectors on a fresh registry, plus the go and process
// collectors unless metrics are disabled.
func New(cfg config.Server) (*Service, error) {
	reg := prometheus.NewRegistry()

	s := &Service{
		Registry: reg,
		unlockTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "unlock_total",
			Help:      "Unlock attempts by result.",
		}, []string{"result"}),
		unlockSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "unlock_duration_seconds",
			Help:      "Time spent decrypting the vault.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		bindTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "binding",
			Name:      "bind_total",
			Help:      "Account binding attempts by result and failed stage.",
		}, []string{"result", "stage"}),
		bindSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "binding",
			Name:      "bind_duration_seconds",
			Help:      "Time from connect to finalization.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		vaultOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "operations_total",
			Help:      "Vault create, import, export and forget operations by result.",
		}, []string{"operation", "result"}),
		locked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "locked",
			Help:      "1 while the wallet session is locked.",
		}),
	}

	cs := []prometheus.Collector{
		s.unlockTotal,
		s.unlockSeconds,
		s.bindTotal,
		s.bindSeconds,
		s.vaultOpsTotal,
		s.locked,
	}
	if cfg.Management.EnableMetrics {
		cs = append(cs,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, err
		}
	}

	s.locked.Set(1)

	return s, nil
}

func (s *Service) ObserveUnlock(err error, took time.Duration) {
	if s == nil {
		return
	}

	s.unlockTotal.WithLabelValues(result(err)).Inc()
	s.unlockSeconds.Observe(took.Seconds())
	if err == nil {
		s.locked.Set(0)
	}
}

// ObserveBind records a bind attempt; stage is empty on success.
func (s *Service) ObserveBind(stage string, err error, took time.Duration) {
	if s == nil {
		return
	}

	s.bindTotal.WithLabelValues(result(err), stage).Inc()
	if err == nil {
		s.bindSeconds.Observe(took.Seconds())
	}
}

func (s *Service) ObserveVault(operation string, err error) {
	if s == nil {
		return
	}

	s.vaultOpsTotal.WithLabelValues(operation, result(err)).Inc()
}

func (s *Service) SetLocked(locked bool) {
	if s == nil {
		return
	}

	if locked {
		s.locked.Set(1)
	} else {
		s.locked.Set(0)
	}
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}

	return ResultSuccess
}
