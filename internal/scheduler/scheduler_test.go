package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steelleads-go/internal/services/pipeline"
)

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := New("not a cron spec", pipeline.NewService(pipeline.Deps{}))
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := New("@every 1h", pipeline.NewService(pipeline.Deps{}))
	require.NoError(t, s.Start())
	s.Stop()
}
