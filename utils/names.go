package utils

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"

	"decryptai/models"
)

var adjectives = []string{
	"brave", "calm", "clever", "curious", "daring", "eager", "fancy",
	"gentle", "giant", "golden", "happy", "hasty", "jolly", "keen",
	"lucky", "mellow", "mighty", "nimble", "odd", "proud", "quick",
	"quiet", "rapid", "rusty", "salty", "sleepy", "sly", "snappy",
	"spicy", "sunny", "swift", "tiny", "wild", "witty", "zesty",
}

var nouns = []string{
	"badger", "beacon", "comet", "falcon", "fox", "glacier", "harbor",
	"heron", "kettle", "lantern", "lemur", "maple", "marmot", "meadow",
	"nebula", "otter", "panda", "pebble", "pigeon", "plume", "raven",
	"reef", "river", "saddle", "sparrow", "summit", "tiger", "turnip",
	"walrus", "willow",
}

// Personas the AI seats play as; prompts lean on the personality.
var personas = []string{
	"Sherlock Holmes", "Marie Curie", "Bob Ross", "Cleopatra",
	"Captain Ahab", "Ada Lovelace", "Groucho Marx", "Frida Kahlo",
	"Julius Caesar", "Jane Austen", "Nikola Tesla", "Mary Shelley",
}

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const roomCodeLength = 6

// RandomName suggests a display name for a new session.
func RandomName() string {
	return adjectives[mrand.Intn(len(adjectives))] + " " + nouns[mrand.Intn(len(nouns))]
}

// RandomAIName produces a tagged AI seat name, e.g. "[AI] witty Bob Ross".
func RandomAIName() string {
	return models.AIPrefix + adjectives[mrand.Intn(len(adjectives))] + " " + personas[mrand.Intn(len(personas))]
}

// RoomCode generates a short join code from OS randomness. Six characters
// over A-Z0-9 leaves collisions to the registry's uniqueness check.
func RoomCode() string {
	buf := make([]byte, roomCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// fall back to math/rand rather than refusing to create rooms.
			buf[i] = roomCodeAlphabet[mrand.Intn(len(roomCodeAlphabet))]
			continue
		}
		buf[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(buf)
}
