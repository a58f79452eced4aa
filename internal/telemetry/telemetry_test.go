package telemetry_test

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/telemetry"
)

func TestLoggerRespectsLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	log := telemetry.NewLogger(&buf, 2)

	log.Trace(5, "should not appear\n")
	assert.Empty(t, buf.String())

	log.Trace(2, "epoch %d\n", 7)
	assert.Contains(t, buf.String(), "epoch 7")
}

func TestMetricsHandlerServesRegisteredGauges(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	m := telemetry.NewMetrics()
	m.ActiveChannels.Set(5)
	m.EpochsGenerated.Add(3)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(err)
	defer resp.Body.Close()
	assert.Equal(200, resp.StatusCode)
}

func TestPushWithoutEnableReturnsError(t *testing.T) {
	m := telemetry.NewMetrics()
	assert.Error(t, m.Push())
}
