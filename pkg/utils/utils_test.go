package utils

import (
	"encoding/hex"
	"testing"

	"github.com/matryer/is"
)

func TestGenerateRandomToken(t *testing.T) {
	is := is.New(t)

	tok := GenerateRandomToken(InviteTokenBytes)
	is.Equal(len(tok), InviteTokenBytes*2) // hex doubles the length

	_, err := hex.DecodeString(tok)
	is.NoErr(err)

	is.True(tok != GenerateRandomToken(InviteTokenBytes))
}

func TestHashAndCheckPassword(t *testing.T) {
	is := is.New(t)

	hash, err := HashPassword("hunter2hunter2")
	is.NoErr(err)
	is.True(hash != "hunter2hunter2")

	is.True(CheckPasswordHash("hunter2hunter2", hash))
	is.True(!CheckPasswordHash("wrong", hash))
}
