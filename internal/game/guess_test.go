package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuessApply(t *testing.T) {
	g, err := New("DOG", 6)
	require.NoError(t, err)

	pattern, err := NewLetterGuess('o').Apply(g)
	require.NoError(t, err)
	assert.Equal(t, "-O-", pattern)

	pattern, err = NewWordGuess("dog").Apply(g)
	require.NoError(t, err)
	assert.Equal(t, "DOG", pattern)
	assert.Equal(t, StatusWon, g.Status())

	_, err = NewLetterGuess('x').Apply(g)
	assert.ErrorIs(t, err, ErrIllegalState)
}

func TestGuessString(t *testing.T) {
	assert.Equal(t, "LetterGuess[X]", NewLetterGuess('x').String())
	assert.Equal(t, "WordGuess[XYZ]", NewWordGuess("xyz").String())
}

func TestParseGuess(t *testing.T) {
	tests := []struct {
		in      string
		want    Guess
		wantErr bool
	}{
		{in: "e", want: NewLetterGuess('E')},
		{in: " q ", want: NewLetterGuess('Q')},
		{in: "cat", want: NewWordGuess("CAT")},
		{in: "ß", want: NewLetterGuess('ß')},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGuess(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
