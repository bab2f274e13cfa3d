package sinks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuildsRegisteredType(t *testing.T) {
	stub := &recordingSink{id: "s", typ: "custom"}
	reg := NewRegistry(map[string]Builder{
		"custom": func(context.Context, SinkConfig, Logger) (Sink, error) { return stub, nil },
	})

	sink, err := reg.SinkFor(context.Background(), SinkConfig{ID: "s", Type: "custom"}, nil)
	require.NoError(t, err)
	assert.Same(t, stub, sink)
}

func TestRegistryUnknownType(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := reg.SinkFor(context.Background(), SinkConfig{ID: "s", Type: "kafka"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no sink registered for type "kafka"`)
}

func TestBuildAllStopsOnFirstFailure(t *testing.T) {
	reg := NewRegistry(map[string]Builder{
		"ok": func(_ context.Context, cfg SinkConfig, _ Logger) (Sink, error) {
			return &recordingSink{id: cfg.ID, typ: "ok"}, nil
		},
	})

	sinks, err := BuildAll(context.Background(), reg, []SinkConfig{
		{ID: "a", Type: "ok"},
		{ID: "b", Type: "missing"},
	}, nil)
	require.Error(t, err)
	assert.Nil(t, sinks)
}

func TestBuildAllEmpty(t *testing.T) {
	sinks, err := BuildAll(context.Background(), DefaultRegistry(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, sinks)
}
