package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestForContext_CarriesIdentifiers(t *testing.T) {
	buf := &bytes.Buffer{}
	base := logrus.New()
	base.SetOutput(buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	previous := L
	L = New(base)
	defer func() { L = previous }()

	ctx, correlationID := WithCorrelationID(context.Background())
	ctx = WithSyncRunID(ctx, "Ab12Cd")

	ForContext(ctx).Info("janela processada")

	assert.Contains(t, buf.String(), correlationID)
	assert.Contains(t, buf.String(), `"sync_run_id":"Ab12Cd"`)
	assert.Equal(t, correlationID, GetCorrelationID(ctx))
}

func TestGetCorrelationID_Empty(t *testing.T) {
	assert.Equal(t, "", GetCorrelationID(context.Background()))
}
