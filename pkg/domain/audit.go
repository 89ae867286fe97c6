package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Event is one entry in the append-only audit trail. Entries form a hash
// chain: each event records the hash of its predecessor, so an edit
// anywhere in the trail surfaces as a broken link downstream.
type Event struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Action    string                 `json:"action"`
	Actor     string                 `json:"actor"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	PrevHash  string                 `json:"prev_hash,omitempty"` // Hash of the preceding event
	Hash      string                 `json:"hash,omitempty"`      // Deterministic hash of this event
}

// Seal links the event to its predecessor and freezes its content hash.
// Pass an empty prevHash for the first event in the trail.
func (e *Event) Seal(prevHash string) {
	e.PrevHash = prevHash
	e.Hash = e.CalculateHash()
}

// CalculateHash generates a deterministic SHA256 digest over every chained
// field. Fields are NUL-delimited so adjacent values cannot collide, and
// metadata keys are folded in sorted order so map iteration cannot move
// the digest.
func (e *Event) CalculateHash() string {
	h := sha256.New()
	for _, field := range []string{
		e.PrevHash,
		e.ID,
		e.Timestamp.Format(time.RFC3339Nano),
		e.Action,
		e.Actor,
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}

	keys := make([]string, 0, len(e.Metadata))
	for k := range e.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value, _ := json.Marshal(e.Metadata[k])
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write(value)
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}

// VerifyChain walks events in append order and reports one violation per
// broken link or content mismatch. An empty result means the trail is
// intact.
func VerifyChain(events []Event) []string {
	var violations []string
	lastHash := ""

	for i, e := range events {
		if e.PrevHash != lastHash {
			violations = append(violations,
				fmt.Sprintf("event %d (%s): prev_hash does not match the preceding event, chain broken", i, e.ID))
		}
		if e.Hash != e.CalculateHash() {
			violations = append(violations,
				fmt.Sprintf("event %d (%s): content hash mismatch, event was altered after sealing", i, e.ID))
		}
		lastHash = e.Hash
	}

	return violations
}
