package state

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	logger "github.com/sirupsen/logrus"
)

// RandSwapStatus builds a plausible fresh record for tests.
func RandSwapStatus(status SwapState) *SwapStatus {
	now := time.Now()
	return &SwapStatus{
		SwapID:      randHex(16),
		Status:      status,
		FromChainTx: "0x" + randHex(32),
		Timestamp:   now.UnixMilli(),
		Hashlock:    "0x" + randHex(32),
		ExpiryTime:  now.Add(2 * time.Hour).UnixMilli(),
	}
}

func randHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		logger.Fatal(err)
	}
	return hex.EncodeToString(b)
}

func getMemoryDB() *sql.DB {
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		logger.Fatal(err)
	}
	return db
}
