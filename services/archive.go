package services

import (
	"context"
	"log"
	"time"

	"decryptai/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Archiver writes finished games to Mongo for later replay. A nil Archiver
// (no database configured) disables archiving; every call is nil-safe so the
// engines never branch on it being wired.
type Archiver struct {
	coll *mongo.Collection
}

func NewArchiver(coll *mongo.Collection) *Archiver {
	if coll == nil {
		return nil
	}
	return &Archiver{coll: coll}
}

func (a *Archiver) SaveWavelength(snap models.WavelengthSnapshot) {
	if a == nil {
		return
	}
	a.insert(models.ArchivedGame{
		RoomCode:   snap.RoomCode,
		Game:       models.VariantWavelength,
		FinishedAt: time.Now(),
		Wavelength: &snap,
	})
}

func (a *Archiver) SaveDecrypto(snap models.DecryptoSnapshot) {
	if a == nil {
		return
	}
	a.insert(models.ArchivedGame{
		RoomCode:   snap.RoomCode,
		Game:       models.VariantDecrypto,
		FinishedAt: time.Now(),
		Decrypto:   &snap,
	})
}

func (a *Archiver) insert(doc models.ArchivedGame) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := a.coll.InsertOne(ctx, doc); err != nil {
		log.Printf("archiving game %s: %v", doc.RoomCode, err)
	}
}

// Get returns the most recent archived game for a room code.
func (a *Archiver) Get(ctx context.Context, roomCode string) (*models.ArchivedGame, error) {
	if a == nil {
		return nil, models.NotFound("game archive is not enabled")
	}
	opts := options.FindOne().SetSort(bson.M{"finished_at": -1})
	var game models.ArchivedGame
	err := a.coll.FindOne(ctx, bson.M{"room_code": roomCode}, opts).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NotFound("no archived game for room " + roomCode)
		}
		return nil, err
	}
	return &game, nil
}
