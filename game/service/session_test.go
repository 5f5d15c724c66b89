package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/cookie-milk-connect4/game/engine"
)

func TestNewSession(t *testing.T) {
	sess, err := NewSession("abcd", nil)
	require.NoError(t, err)
	assert.Equal(t, "classic", sess.Preset.Name)
	assert.Equal(t, engine.NewBoard(), sess.Snapshot().Board)

	_, err = NewSession("bad", &engine.Preset{Name: "floaty", Layout: []string{"....", "C...", "....", "...."}})
	assert.Error(t, err)

	_, err = NewSession("bad", &engine.Preset{})
	assert.Error(t, err)
}

func TestSession_PlayRecordsAttempts(t *testing.T) {
	sess, err := NewSession("abcd", nil)
	require.NoError(t, err)

	record, snap, err := sess.Play(engine.Milk, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Number)
	assert.Equal(t, 1, record.Row)
	assert.True(t, record.Accepted)
	assert.Equal(t, engine.Ongoing, snap.Board.Status().State)
	assert.Equal(t, engine.Milk, snap.Board.Get(3, 0))
	assert.Equal(t, 1, snap.MoveCount)

	record, _, err = sess.Play(engine.Milk, 0)
	assert.ErrorIs(t, err, engine.ErrInvalidColumn)
	assert.Equal(t, 2, record.Number)
	assert.False(t, record.Accepted)
	assert.Equal(t, "invalid column", record.Error)

	history := sess.History()
	require.Len(t, history, 2)
	history[0].Column = 99
	assert.Equal(t, 4, sess.History()[0].Column, "History returns a copy")
}

func TestSession_ResetReseeds(t *testing.T) {
	preset := &engine.Preset{Name: "seeded", Seed: 99, Layout: []string{"....", "....", "....", "MC.."}}
	sess, err := NewSession("abcd", preset)
	require.NoError(t, err)

	first := sess.RandomBoard()
	_, _, err = sess.Play(engine.Cookie, 3)
	require.NoError(t, err)

	snap := sess.Reset()
	assert.Equal(t, snap, sess.Snapshot())
	assert.Equal(t, []string{"....", "....", "....", "MC.."}, snap.Board.Layout())
	assert.Equal(t, 1, snap.Resets)
	assert.Equal(t, 1, snap.MoveCount)
	assert.Equal(t, first, sess.RandomBoard())
}
