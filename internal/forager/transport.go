package forager

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingTransport is an http.RoundTripper that logs outbound requests and
// their responses at debug level.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *zap.Logger
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Logger == nil || !t.Logger.Core().Enabled(zapcore.DebugLevel) {
		return base.RoundTrip(req)
	}

	t.Logger.Debug("outbound request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := base.RoundTrip(req)
	if err != nil {
		t.Logger.Debug("outbound request failed",
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return resp, err
	}

	// Bodies are HTML pages; only their declared size is logged.
	t.Logger.Debug("outbound response",
		zap.Int("status", resp.StatusCode),
		zap.String("url", req.URL.String()),
		zap.Int64("content_length", resp.ContentLength),
		zap.String("content_type", resp.Header.Get("Content-Type")),
	)

	return resp, nil
}

// restyLogger routes resty's internal messages to debug so that a failed
// source produces only the forager's own error line.
type restyLogger struct {
	s *zap.SugaredLogger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.s.Debugf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.s.Debugf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.s.Debugf(format, v...) }
