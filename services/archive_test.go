package services

import (
	"context"
	"testing"

	"decryptai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Without a database the archiver is nil; every call must still be safe.
func TestNilArchiver(t *testing.T) {
	a := NewArchiver(nil)
	require.Nil(t, a)

	a.SaveWavelength(models.WavelengthSnapshot{RoomCode: "ABC123"})
	a.SaveDecrypto(models.DecryptoSnapshot{RoomCode: "ABC123"})

	_, err := a.Get(context.Background(), "ABC123")
	assert.Equal(t, models.KindNotFound, models.KindOf(err))
}
