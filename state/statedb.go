package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/unite-defi/fusion-go/database"
)

// StateDB persists swap status records in sqlite. Only the orchestrator
// and the status HTTP surface mutate it.
type StateDB struct {
	stmtCache *database.StmtCache
}

func NewStateDB(db *sql.DB) (*StateDB, error) {
	if _, err := db.Exec(swapTable); err != nil {
		return nil, err
	}
	return &StateDB{
		stmtCache: database.NewStmtCache(db),
	}, nil
}

func (st *StateDB) Close() {
	st.stmtCache.Clear()
}

// InsertSwap stores a fresh record. The swap id must be new.
func (st *StateDB) InsertSwap(s *SwapStatus) error {
	query := `INSERT INTO swap (` + swapColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(
		s.SwapID, string(s.Status),
		nullable(s.FromChainTx), nullable(s.ToChainTx),
		s.Timestamp, nullable(s.Secret), s.Hashlock, s.ExpiryTime,
	)
	return err
}

// GetSwap looks up one record by swap id. The boolean is false if absent.
func (st *StateDB) GetSwap(swapID string) (*SwapStatus, bool, error) {
	query := `SELECT` + swapColumns + `FROM swap WHERE swapId = ?`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return nil, false, err
	}

	var (
		s                    SwapStatus
		fromTx, toTx, secret sql.NullString
		status               string
	)
	err = stmt.QueryRow(swapID).Scan(
		&s.SwapID, &status, &fromTx, &toTx, &s.Timestamp, &secret, &s.Hashlock, &s.ExpiryTime,
	)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	s.Status = SwapState(status)
	s.FromChainTx = fromTx.String
	s.ToChainTx = toTx.String
	s.Secret = secret.String
	return &s, true, nil
}

// UpdateStatus moves a swap to a new state, optionally recording the
// destination transaction and the revealed secret.
func (st *StateDB) UpdateStatus(swapID string, status SwapState, toChainTx, secret string) error {
	query := `UPDATE swap SET status = ?,
		toChainTx = COALESCE(?, toChainTx),
		secret = COALESCE(?, secret)
		WHERE swapId = ?`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return err
	}
	res, err := stmt.Exec(string(status), nullable(toChainTx), nullable(secret), swapID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("swap %s not found", swapID)
	}
	return nil
}

// ExpireOverdue flips PENDING records whose deadline passed to EXPIRED.
// Returns how many were flipped.
func (st *StateDB) ExpireOverdue(now time.Time) (int64, error) {
	query := `UPDATE swap SET status = 'EXPIRED' WHERE status = 'PENDING' AND expiryTime < ?`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return 0, err
	}
	res, err := stmt.Exec(now.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PendingSwaps lists records still awaiting the destination leg.
func (st *StateDB) PendingSwaps() ([]*SwapStatus, error) {
	query := `SELECT swapId FROM swap WHERE status = 'PENDING' ORDER BY timestamp`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SwapStatus
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		s, ok, err := st.GetSwap(id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
