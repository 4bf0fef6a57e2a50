package services

import (
	"sync"

	"decryptai/models"
	"decryptai/utils"
)

// Registry maps room codes to live rooms. The outer map is guarded by an
// RWMutex; every room carries its own mutex, so commands for distinct rooms
// run fully in parallel while commands for one room are serialized.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

type roomEntry struct {
	mu   sync.Mutex
	room models.Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*roomEntry)}
}

// Add registers a room under a fresh unique code and returns it. The caller
// builds the room with the code from the provided constructor so the code is
// immutable from birth.
func (r *Registry) Add(build func(code string) models.Room) models.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		code := utils.RoomCode()
		if _, taken := r.rooms[code]; taken {
			continue
		}
		room := build(code)
		r.rooms[code] = &roomEntry{room: room}
		return room
	}
}

// WithRoom runs fn with exclusive access to the named room. Reads use the
// same path so they always observe a fully applied transition.
func (r *Registry) WithRoom(code string, fn func(models.Room) error) error {
	r.mu.RLock()
	entry, ok := r.rooms[code]
	r.mu.RUnlock()
	if !ok {
		return models.NotFound("room " + code + " not found")
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.room)
}

// WithWavelength is WithRoom narrowed to the cooperative variant.
func (r *Registry) WithWavelength(code string, fn func(*models.WavelengthRoom) error) error {
	return r.WithRoom(code, func(room models.Room) error {
		w, ok := room.(*models.WavelengthRoom)
		if !ok {
			return models.Validation("room " + code + " is not a wavelength game")
		}
		return fn(w)
	})
}

// WithDecrypto is WithRoom narrowed to the competitive variant.
func (r *Registry) WithDecrypto(code string, fn func(*models.DecryptoRoom) error) error {
	return r.WithRoom(code, func(room models.Room) error {
		d, ok := room.(*models.DecryptoRoom)
		if !ok {
			return models.Validation("room " + code + " is not a decrypto game")
		}
		return fn(d)
	})
}

// VariantOf reports which state machine the room runs, for routes shared by
// both variants.
func (r *Registry) VariantOf(code string) (models.GameVariant, error) {
	var v models.GameVariant
	err := r.WithRoom(code, func(room models.Room) error {
		v = room.Variant()
		return nil
	})
	return v, err
}
