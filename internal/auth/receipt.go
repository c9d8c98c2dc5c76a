package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// receiptNumberLen is the number of hash characters in the human-presentable
// receipt number.
const receiptNumberLen = 10

// ComputeReceipt derives the vote receipt from the ballot's identifying
// inputs. The full hex hash is stored with the vote; the short uppercased
// prefix form is handed to the voter as proof of participation. The receipt
// commits to when and with which session the ballot was cast, but not to the
// chosen candidate.
func ComputeReceipt(electionID, voterID, positionID uuid.UUID, castAt time.Time, sessionToken string, prefix string) (hash string, number string) {
	input := fmt.Sprintf("%s|%s|%s|%d|%s",
		electionID, voterID, positionID, castAt.UnixNano(), sessionToken)

	sum := sha256.Sum256([]byte(input))
	hash = hex.EncodeToString(sum[:])
	number = prefix + "-" + strings.ToUpper(hash[:receiptNumberLen])
	return hash, number
}
