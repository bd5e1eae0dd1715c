package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldersky/loom/internal/core/notify"
)

func TestToastController_Push(t *testing.T) {
	c := NewToastController()

	c.Push(notify.Infof("hello"))

	assert.True(t, c.HasToasts())
	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "hello", c.Toasts()[0].notification.Message)
	assert.Equal(t, infoToastTTL, c.Toasts()[0].remaining)
}

func TestToastController_Push_TTL_follows_level(t *testing.T) {
	c := NewToastController()

	c.Push(notify.Infof("saved"))
	c.Push(notify.Warnf("slow disk"))
	c.Push(notify.Errorf("save failed"))

	assert.Equal(t, infoToastTTL, c.Toasts()[0].remaining)
	assert.Equal(t, warnToastTTL, c.Toasts()[1].remaining)
	assert.Equal(t, errorToastTTL, c.Toasts()[2].remaining)

	// the info toast expires first; the error outlives it
	c.Tick(5 * time.Second)
	require.Len(t, c.Toasts(), 2)
	assert.Equal(t, "slow disk", c.Toasts()[0].notification.Message)
	assert.Equal(t, "save failed", c.Toasts()[1].notification.Message)
}

func TestToastController_Push_evicts_oldest_at_max(t *testing.T) {
	c := NewToastController()

	for i := range defaultMaxToasts + 2 {
		c.Push(notify.Infof("%d", i))
	}

	assert.Len(t, c.Toasts(), defaultMaxToasts)
	// Oldest two should have been evicted; first remaining is "2".
	assert.Equal(t, "2", c.Toasts()[0].notification.Message)
}

func TestToastController_Tick_decrements_TTL(t *testing.T) {
	c := NewToastController()
	c.Push(notify.Infof("tick"))

	c.Tick(1 * time.Second)

	assert.Equal(t, infoToastTTL-1*time.Second, c.Toasts()[0].remaining)
}

func TestToastController_Tick_removes_expired(t *testing.T) {
	c := NewToastController()
	c.Push(notify.Infof("expires"))
	c.Push(notify.Infof("survives"))

	c.toasts[0].remaining = 50 * time.Millisecond
	c.Tick(100 * time.Millisecond)

	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "survives", c.Toasts()[0].notification.Message)
}

func TestToastController_Dismiss(t *testing.T) {
	c := NewToastController()
	c.Push(notify.Infof("first"))
	c.Push(notify.Errorf("second"))

	c.Dismiss()

	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "first", c.Toasts()[0].notification.Message)

	c.Dismiss()
	c.Dismiss() // no-op on empty
	assert.False(t, c.HasToasts())
}

func TestToastController_DismissAll(t *testing.T) {
	c := NewToastController()
	c.Push(notify.Infof("a"))
	c.Push(notify.Infof("b"))

	c.DismissAll()

	assert.False(t, c.HasToasts())
}
