package state

import (
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func newTestDB(t *testing.T) *StateDB {
	sqlDB := getMemoryDB()
	db, err := NewStateDB(sqlDB)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
		sqlDB.Close()
	})
	return db
}

func TestInsertAndGetSwap(t *testing.T) {
	db := newTestDB(t)

	s := RandSwapStatus(StatusPending)
	s.Secret = "0x" + randHex(32)
	assert.NoError(t, db.InsertSwap(s))

	got, ok, err := db.GetSwap(s.SwapID)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, s, got)

	// duplicate ids are rejected by the primary key
	assert.Error(t, db.InsertSwap(s))

	_, ok, err = db.GetSwap("no-such-swap")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)

	s := RandSwapStatus(StatusPending)
	assert.NoError(t, db.InsertSwap(s))

	// destination tx lands, secret gets revealed
	err := db.UpdateStatus(s.SwapID, StatusCompleted, "0xdeadbeef", "0xsecret")
	assert.NoError(t, err)

	got, ok, err := db.GetSwap(s.SwapID)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "0xdeadbeef", got.ToChainTx)
	assert.Equal(t, "0xsecret", got.Secret)
	// original fields are untouched
	assert.Equal(t, s.FromChainTx, got.FromChainTx)

	// empty arguments keep what is already there
	err = db.UpdateStatus(s.SwapID, StatusCompleted, "", "")
	assert.NoError(t, err)
	got, _, _ = db.GetSwap(s.SwapID)
	assert.Equal(t, "0xdeadbeef", got.ToChainTx)
	assert.Equal(t, "0xsecret", got.Secret)

	assert.Error(t, db.UpdateStatus("no-such-swap", StatusFailed, "", ""))
}

func TestExpireOverdue(t *testing.T) {
	db := newTestDB(t)

	overdue := RandSwapStatus(StatusPending)
	overdue.ExpiryTime = time.Now().Add(-time.Minute).UnixMilli()
	assert.NoError(t, db.InsertSwap(overdue))

	fresh := RandSwapStatus(StatusPending)
	assert.NoError(t, db.InsertSwap(fresh))

	done := RandSwapStatus(StatusCompleted)
	done.ExpiryTime = time.Now().Add(-time.Minute).UnixMilli()
	assert.NoError(t, db.InsertSwap(done))

	n, err := db.ExpireOverdue(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, _, _ := db.GetSwap(overdue.SwapID)
	assert.Equal(t, StatusExpired, got.Status)
	got, _, _ = db.GetSwap(fresh.SwapID)
	assert.Equal(t, StatusPending, got.Status)
	// terminal records never flip
	got, _, _ = db.GetSwap(done.SwapID)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestPendingSwaps(t *testing.T) {
	db := newTestDB(t)

	first := RandSwapStatus(StatusPending)
	first.Timestamp = 1000
	second := RandSwapStatus(StatusPending)
	second.Timestamp = 2000
	done := RandSwapStatus(StatusCompleted)

	assert.NoError(t, db.InsertSwap(second))
	assert.NoError(t, db.InsertSwap(first))
	assert.NoError(t, db.InsertSwap(done))

	pending, err := db.PendingSwaps()
	assert.NoError(t, err)
	assert.Len(t, pending, 2)
	assert.Equal(t, first.SwapID, pending[0].SwapID)
	assert.Equal(t, second.SwapID, pending[1].SwapID)
}

func TestSchemaRejectsBadRows(t *testing.T) {
	db := newTestDB(t)

	bad := RandSwapStatus("BOGUS")
	assert.Error(t, db.InsertSwap(bad))

	noExpiry := RandSwapStatus(StatusPending)
	noExpiry.ExpiryTime = 0
	assert.Error(t, db.InsertSwap(noExpiry))
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusExpired.Terminal())
}
