package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestScopedAPI(t *testing.T) {
	recorder := &Recorder{}
	tel := NewScopedAPI("bgg_protocol", recorder)

	tel.ReportBroken("client.get", errors.New("connection refused"))
	tel.ReportWarning("client.get", "retrying")
	tel.ReportDebug("hello")
	tel.ReportCount("client.collection", 3)

	broken := recorder.Reports(KindBroken, "client.get")
	require.Len(t, broken, 1)
	require.Equal(t, "bgg_protocol: client.get", broken[0].ID)

	require.Len(t, recorder.Reports(KindWarning, "bgg_protocol: client.get"), 1)
	require.Len(t, recorder.Reports(KindDebug, "hello"), 1)
	require.Empty(t, recorder.Reports(KindWarning, "client.get-pending"))

	counts := recorder.Reports(KindCount, "client.collection")
	require.Len(t, counts, 1)
	require.Equal(t, int64(3), counts[0].Count)
}

func sumOf(t testing.TB, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, name)

			var total int64
			for _, point := range sum.DataPoints {
				total += point.Value
			}
			return total
		}
	}
	return 0
}

func TestOtelAPI(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	recorder := &Recorder{}
	tel, err := NewOtelAPI(recorder, provider.Meter("test"))
	require.NoError(t, err)

	tel.ReportBroken("client.get", "boom")
	tel.ReportWarning("client.get", "429")
	tel.ReportWarning("client.get-pending", "202")
	tel.ReportCount("client.collection", 12)

	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Equal(t, int64(1), sumOf(t, rm, "bgg.reports.broken"))
	require.Equal(t, int64(2), sumOf(t, rm, "bgg.reports.warning"))

	require.Len(t, recorder.Reports(KindBroken, "client.get"), 1)
	require.Len(t, recorder.Reports(KindWarning, ""), 2)
	require.Len(t, recorder.Reports(KindCount, "client.collection"), 1)
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	recorder := &Recorder{}
	client := resty.New()
	InstrumentResty(client, recorder)

	_, err := client.R().Get(server.URL)
	require.NoError(t, err)
	require.Len(t, recorder.Reports(KindDebug, report_resty_request), 1)
	require.Len(t, recorder.Reports(KindDebug, report_resty_response), 1)

	server.Close()
	_, err = client.R().Get(server.URL)
	require.Error(t, err)
	require.Len(t, recorder.Reports(KindBroken, report_resty_response), 1)
}
