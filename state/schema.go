package state

var swapTable = `CREATE TABLE IF NOT EXISTS swap (
	swapId CHAR(32) PRIMARY KEY NOT NULL,
	status VARCHAR(10) NOT NULL,
	fromChainTx VARCHAR(128),
	toChainTx VARCHAR(128),
	timestamp BIGINT NOT NULL,
	secret CHAR(66),
	hashlock CHAR(66) NOT NULL,
	expiryTime BIGINT NOT NULL,
	CONSTRAINT chk_status CHECK (status IN ('PENDING', 'COMPLETED', 'FAILED', 'EXPIRED')),
	CONSTRAINT chk_swapId CHECK (swapId != ''),
	CONSTRAINT chk_expiry CHECK (expiryTime > 0)
);`

const swapColumns = " swapId, status, fromChainTx, toChainTx, timestamp, secret, hashlock, expiryTime "
