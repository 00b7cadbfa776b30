package forager

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoggingTransport_DebugLogsRoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<h1>hi</h1>")
	}))
	defer ts.Close()

	logger, logs := newObservedLogger(zapcore.DebugLevel)
	client := &http.Client{Transport: &LoggingTransport{Logger: logger}}

	resp, err := client.Get(ts.URL + "/page")
	require.NoError(t, err)
	resp.Body.Close()

	reqLogs := logs.FilterMessage("outbound request").All()
	require.Len(t, reqLogs, 1)
	assert.Equal(t, "GET", reqLogs[0].ContextMap()["method"])
	assert.Equal(t, ts.URL+"/page", reqLogs[0].ContextMap()["url"])

	respLogs := logs.FilterMessage("outbound response").All()
	require.Len(t, respLogs, 1)
	assert.EqualValues(t, http.StatusOK, respLogs[0].ContextMap()["status"])
	assert.Equal(t, "text/html", respLogs[0].ContextMap()["content_type"])
}

func TestLoggingTransport_SilentAboveDebug(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	logger, logs := newObservedLogger(zapcore.InfoLevel)
	client := &http.Client{Transport: &LoggingTransport{Logger: logger}}

	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Zero(t, logs.Len())
}

func TestLoggingTransport_NilLogger(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	client := &http.Client{Transport: &LoggingTransport{}}

	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
