// File: internal/platform/elasticsearch/client.go
package elasticsearch

import (
	"net/http"
	"time"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/config"
)

// ESClientWrapper wraps the elasticsearch.Client. A nil wrapper (or nil
// inner client) means keyword search is disabled by configuration.
type ESClientWrapper struct {
	*elasticsearch.Client
}

// ZapLogger is an adapter from zap.Logger to elastictransport.Logger.
type ZapLogger struct {
	logger *zap.Logger
}

var _ elastictransport.Logger = (*ZapLogger)(nil)

// LogRoundTrip logs request-response metrics for each ES call.
func (l *ZapLogger) LogRoundTrip(req *http.Request, res *http.Response, err error, start time.Time, dur time.Duration) error {
	var statusCode int
	if res != nil {
		statusCode = res.StatusCode
	}
	l.logger.Debug("Elasticsearch RoundTrip",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", statusCode),
		zap.Duration("duration", dur),
		zap.Error(err),
	)
	return nil
}

// RequestBodyEnabled makes the client pass a copy of request body to the logger.
func (l *ZapLogger) RequestBodyEnabled() bool { return false }

// ResponseBodyEnabled makes the client pass a copy of response body to the logger.
func (l *ZapLogger) ResponseBodyEnabled() bool { return false }

// NewClient creates a new Elasticsearch client wrapper. Returns a nil
// wrapper without error when ELASTICSEARCH_URL is unset; callers must treat
// that as "search disabled".
func NewClient(cfg *config.Config, logger *zap.Logger) (*ESClientWrapper, error) {
	if cfg.ElasticsearchURL == "" {
		logger.Info("ElasticsearchURL not configured; keyword search is disabled.")
		return nil, nil
	}

	retryBackoff := func(i int) time.Duration {
		return time.Duration(i) * 100 * time.Millisecond
	}

	esCfg := elasticsearch.Config{
		Addresses:     []string{cfg.ElasticsearchURL},
		Logger:        &ZapLogger{logger: logger.Named("elasticsearch_client")},
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff:  retryBackoff,
		MaxRetries:    3,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		logger.Error("Failed to create Elasticsearch client", zap.Error(err))
		return nil, err
	}

	logger.Info("Elasticsearch client initialized", zap.String("url", cfg.ElasticsearchURL))
	return &ESClientWrapper{Client: client}, nil
}

// Enabled reports whether the wrapper holds a usable client.
func (w *ESClientWrapper) Enabled() bool {
	return w != nil && w.Client != nil
}
