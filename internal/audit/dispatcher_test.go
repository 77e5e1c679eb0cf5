package audit

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/carelink/internal/models"
	"github.com/BruksfildServices01/carelink/internal/testutil"
)

func TestDispatcherPersistsEvents(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db), zerolog.Nop())

	d.Dispatch(Event{
		ActorID:  Ptr("admin-1"),
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: Ptr("ap-1"),
		Metadata: map[string]string{"to": "confirmed"},
	})
	d.Dispatch(Event{Action: "appointment_created", Entity: "appointment"})
	d.Close()

	var rows []models.AuditLog
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)

	assert.Equal(t, "admin-1", *rows[0].ActorID)
	assert.Equal(t, "ap-1", *rows[0].EntityID)
	assert.JSONEq(t, `{"to":"confirmed"}`, rows[0].Metadata)
	assert.Nil(t, rows[1].ActorID)
	assert.Empty(t, rows[1].Metadata)
}

func TestDispatchAfterCloseDoesNotPanic(t *testing.T) {
	d := NewDispatcher(New(testutil.NewDB(t)), zerolog.Nop())
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "late"})
	})

	var nilDispatcher *Dispatcher
	assert.NotPanics(t, func() {
		nilDispatcher.Dispatch(Event{Action: "noop"})
	})
}

func TestDispatchRacingClose(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(Event{Action: "appointment_created", Entity: "appointment"})
		}()
	}
	d.Close()
	wg.Wait()
	d.Close()

	var n int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&n).Error)
	assert.LessOrEqual(t, n, int64(20))
}

func TestPtr(t *testing.T) {
	assert.Nil(t, Ptr(""))
	assert.Equal(t, "x", *Ptr("x"))
}
