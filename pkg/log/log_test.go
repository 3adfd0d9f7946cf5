package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(t *testing.T) (*logger, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	base := logrus.New()
	base.SetOutput(buf)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	return &logger{entry: logrus.NewEntry(base)}, buf
}

func TestKeepInDevelopment(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{key: "correlation_id", want: true},
		{key: "client_code", want: true},
		{key: "staging_id", want: true},
		{key: "user_agent", want: false},
		{key: "remote_addr", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, keepInDevelopment(tt.key))
		})
	}
}

func TestWithFields_Development(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	l, buf := captureLogger(t)

	l.WithFields(Fields{
		"client_code": "supply",
		"user_agent":  "curl",
	}).Info("painel")

	assert.Contains(t, buf.String(), "client_code=supply")
	assert.NotContains(t, buf.String(), "user_agent")
}

func TestWithFields_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	l, buf := captureLogger(t)

	l.WithFields(Fields{
		"client_code": "supply",
		"user_agent":  "curl",
	}).WithField("remote_addr", "10.0.0.1").Info("painel")

	assert.Contains(t, buf.String(), "user_agent=curl")
	assert.Contains(t, buf.String(), "remote_addr=10.0.0.1")
}

func TestCorrelationID(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	l, buf := captureLogger(t)

	ctx, id := WithCorrelationID(context.Background())
	require.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))

	l.WithContext(ctx).Info("requisição")
	assert.Contains(t, buf.String(), "correlation_id="+id)
}
