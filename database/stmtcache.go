// Package database carries small sqlite helpers shared by the stores.
package database

import (
	"database/sql"
	"sync"
)

// StmtCache memoizes prepared statements by query text. Statement
// preparation dominates sqlite round-trip cost for the short queries the
// swap store issues.
type StmtCache struct {
	db *sql.DB

	mu    sync.Mutex
	stmts map[string]*sql.Stmt
}

func NewStmtCache(db *sql.DB) *StmtCache {
	return &StmtCache{db: db, stmts: make(map[string]*sql.Stmt)}
}

func (sc *StmtCache) Prepare(query string) (*sql.Stmt, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if stmt, ok := sc.stmts[query]; ok {
		return stmt, nil
	}
	stmt, err := sc.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	sc.stmts[query] = stmt
	return stmt, nil
}

// Clear closes every cached statement. Call before closing the DB.
func (sc *StmtCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for q, stmt := range sc.stmts {
		_ = stmt.Close()
		delete(sc.stmts, q)
	}
}
