// Package ledger implements the hash-chain primitives of the time-clock
// ledger: the event digest, the ordering state machine, break pairing and the
// full-chain integrity replay. Everything here is pure computation over
// already-fetched events; storage access stays in the service layer.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/crewledger-systems/crewledger/internal/models"
)

// Digest computes the SHA-256 chain digest of an event over its stable
// fields. Event N+1 stores Digest(event N); the first event stores
// models.GenesisHash instead. The input layout is fixed and must never
// change, or every stored chain breaks.
func Digest(e *models.TimestampEvent) string {
	payload := fmt.Sprintf("%s|%s|%d|%s",
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Type,
		e.SequenceNumber,
		e.WorkCategoryCode,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
