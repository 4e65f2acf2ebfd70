package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapi/internal/models"
)

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

func TestHandleEvent(t *testing.T) {
	ctx := context.Background()

	event := func(action string) []byte {
		b, err := json.Marshal(models.TodoEvent{
			EventID:    "ev-1",
			Action:     action,
			TodoID:     7,
			OccurredAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		return b
	}

	t.Run("change actions invalidate", func(t *testing.T) {
		for _, action := range []string{models.EventCreated, models.EventUpdated, models.EventDeleted} {
			inv := &countingInvalidator{}
			require.NoError(t, handleEvent(ctx, event(action), inv))
			assert.Equal(t, 1, inv.calls, action)
		}
	})

	t.Run("unknown action is skipped", func(t *testing.T) {
		inv := &countingInvalidator{}
		require.NoError(t, handleEvent(ctx, event("renamed"), inv))
		assert.Zero(t, inv.calls)
	})

	t.Run("malformed payload errors without invalidating", func(t *testing.T) {
		inv := &countingInvalidator{}
		require.Error(t, handleEvent(ctx, []byte("{not json"), inv))
		assert.Zero(t, inv.calls)
	})
}
