package certificate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HashLength is the number of hex characters kept from the digest
const HashLength = 12

// Certificate attests a participant's completion of a training serie.
// The hash doubles as the public lookup key printed on the document.
type Certificate struct {
	ID              uuid.UUID `db:"id" json:"id"`
	SerieID         uuid.UUID `db:"serie_id" json:"serie_id"`
	CustomerID      uuid.UUID `db:"customer_id" json:"customer_id"`
	ParticipantName string    `db:"participant_name" json:"participant_name"`
	Hash            string    `db:"hash" json:"hash"`
	IssuedAt        time.Time `db:"issued_at" json:"issued_at"`
	DownloadCount   int       `db:"download_count" json:"download_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ComputeHash derives the certificate code from its identifying fields.
// Identical inputs always yield the same code, which is what makes retried
// issuance requests idempotent.
func ComputeHash(serieID uuid.UUID, participantName string, customerID uuid.UUID, issuedAt time.Time) string {
	input := fmt.Sprintf("%s|%s|%s|%d", serieID, participantName, customerID, issuedAt.UnixMilli())
	sum := sha256.Sum256([]byte(input))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:HashLength])
}
