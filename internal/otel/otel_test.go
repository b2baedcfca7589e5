package otel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		raw  string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"Authorization=Basic abc123", map[string]string{"Authorization": "Basic abc123"}},
		{" a = 1 , b=2,", map[string]string{"a": "1", "b": "2"}},
		{"novalue,=x,k=v=w", map[string]string{"k": "v=w"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseHeaders(tt.raw))
		})
	}
}

func TestEndpointParts(t *testing.T) {
	host, path, insecure, err := endpointParts("http://localhost:3000/api/public/otel/")
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", host)
	assert.Equal(t, "/api/public/otel", path)
	assert.True(t, insecure)

	_, _, insecure, err = endpointParts("https://otlp.example.com")
	require.NoError(t, err)
	assert.False(t, insecure)

	_, _, _, err = endpointParts("not a url")
	assert.Error(t, err)
}

func TestInitWithoutEndpoint(t *testing.T) {
	tel, err := Init(context.Background(), OTELConfig{})
	require.NoError(t, err)
	require.NotNil(t, tel.Tracer)
	require.NotNil(t, tel.Metrics)

	tel.Metrics.RecordCommand(context.Background(), "-V", "ok", time.Millisecond)
	tel.Metrics.RecordVersionQuery(context.Background(), "ok")
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordCommand(context.Background(), "source", "error", time.Second)
	m.RecordVersionQuery(context.Background(), "parse_error")

	var tel *Telemetry
	assert.NoError(t, tel.Shutdown(context.Background()))
}
