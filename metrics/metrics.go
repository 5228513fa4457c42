package metrics

import (
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	IndexedBlocks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobscope_indexed_blocks_total",
		Help: "Total number of blocks ingested from the execution layer.",
	})
	IndexerHeadBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blobscope_indexer_head_block",
		Help: "Highest block number processed by the indexer.",
	})
	IndexerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobscope_indexer_errors_total",
		Help: "Total number of ingestion errors.",
	})
	MarketRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobscope_market_refreshes_total",
		Help: "Total number of market snapshot refreshes.",
	})
	MarketRefreshErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobscope_market_refresh_errors_total",
		Help: "Total number of failed market snapshot refreshes.",
	})
	MarketUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blobscope_market_target_utilization_percent",
		Help: "Target utilization of the latest ingested block in percent.",
	})
	MarketRegime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blobscope_market_regime",
		Help: "Regime of the latest ingested block (0 abundant .. 4 saturated).",
	})
)

type metricsCollector struct {
	preCollectFns []func()
}

type MetricsHandler struct {
	handler         http.Handler
	lastCollectTime time.Time
}

var collector = &metricsCollector{
	preCollectFns: []func(){},
}

// AddPreCollectFn registers a callback invoked before each scrape so
// services can push their current state into the gauges.
func AddPreCollectFn(fn func()) {
	collector.preCollectFns = append(collector.preCollectFns, fn)
}

func StartMetricsServer(logger logrus.FieldLogger, host string, port string) error {
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "9090"
	}

	srv := &http.Server{
		Addr:    host + ":" + port,
		Handler: GetMetricsHandler(),
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	go func() {
		logger.Infof("metrics server listening on %v", srv.Addr)
		if err := srv.Serve(listener); err != nil {
			logger.WithError(err).Fatal("Error serving metrics")
		}
	}()

	return nil
}

func GetMetricsHandler() http.Handler {
	return &MetricsHandler{
		handler:         promhttp.Handler(),
		lastCollectTime: time.Now(),
	}
}

func (mh *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if time.Since(mh.lastCollectTime) > 1*time.Second {
		for _, fn := range collector.preCollectFns {
			fn()
		}
		mh.lastCollectTime = time.Now()
	}

	mh.handler.ServeHTTP(w, r)
}
