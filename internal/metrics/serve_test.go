package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_ExposesMetricsUntilCancelled(t *testing.T) {
	regOK.Store(false)
	ctx, cancel := context.WithCancel(context.Background())
	addr, err := Serve(ctx, "127.0.0.1:0", nil)
	require.NoError(t, err)
	IncConfigApplied()

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "gotraywatch_monitor_configs_applied_total")

	cancel()
	require.Eventually(t, func() bool {
		_, err := http.Get("http://" + addr.String() + "/metrics")
		return err != nil
	}, 2*time.Second, 20*time.Millisecond)
}

func TestServe_BadAddress(t *testing.T) {
	_, err := Serve(context.Background(), "not-an-address", nil)
	assert.Error(t, err)
}
