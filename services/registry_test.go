package services

import (
	"sync"
	"testing"
	"time"

	"decryptai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryUnknownRoomIsNotFound(t *testing.T) {
	reg := NewRegistry()
	err := reg.WithRoom("ABC123", func(models.Room) error { return nil })
	require.Error(t, err)
	assert.Equal(t, models.KindNotFound, models.KindOf(err))

	// Reads never create rooms.
	err = reg.WithRoom("ABC123", func(models.Room) error { return nil })
	assert.Equal(t, models.KindNotFound, models.KindOf(err))
}

func TestRegistryAddAssignsUniqueCodes(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		room := reg.Add(func(code string) models.Room {
			return models.NewWavelengthRoom(code)
		})
		require.Len(t, room.Code(), 6)
		assert.False(t, seen[room.Code()], "duplicate room code %s", room.Code())
		seen[room.Code()] = true
	}
}

func TestRegistryVariantMismatch(t *testing.T) {
	reg := NewRegistry()
	room := reg.Add(func(code string) models.Room {
		return models.NewDecryptoRoom(code)
	})

	err := reg.WithWavelength(room.Code(), func(*models.WavelengthRoom) error { return nil })
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	v, err := reg.VariantOf(room.Code())
	require.NoError(t, err)
	assert.Equal(t, models.VariantDecrypto, v)
}

// Commands for one room are serialized; commands for distinct rooms are not.
func TestRegistryDistinctRoomsRunInParallel(t *testing.T) {
	reg := NewRegistry()
	a := reg.Add(func(code string) models.Room { return models.NewWavelengthRoom(code) })
	b := reg.Add(func(code string) models.Room { return models.NewWavelengthRoom(code) })

	aHeld := make(chan struct{})
	release := make(chan struct{})
	go reg.WithRoom(a.Code(), func(models.Room) error {
		close(aHeld)
		<-release
		return nil
	})
	<-aHeld

	// Room b must be reachable while a's lock is held.
	done := make(chan struct{})
	go func() {
		reg.WithRoom(b.Code(), func(models.Room) error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("command on room b blocked behind room a's lock")
	}
	close(release)
}

func TestRegistrySerializesOneRoom(t *testing.T) {
	reg := NewRegistry()
	room := reg.Add(func(code string) models.Room { return models.NewWavelengthRoom(code) })
	w := room.(*models.WavelengthRoom)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.WithWavelength(room.Code(), func(r *models.WavelengthRoom) error {
				r.Score++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20.0, w.Score)
}
