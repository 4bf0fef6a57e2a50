package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ArchivedGame is the document written to the games_archive collection when a
// room reaches its terminal phase.
type ArchivedGame struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	RoomCode   string              `bson:"room_code" json:"room_code"`
	Game       GameVariant         `bson:"game" json:"game"`
	FinishedAt time.Time           `bson:"finished_at" json:"finished_at"`
	Wavelength *WavelengthSnapshot `bson:"wavelength,omitempty" json:"wavelength,omitempty"`
	Decrypto   *DecryptoSnapshot   `bson:"decrypto,omitempty" json:"decrypto,omitempty"`
}
