package message

import (
	"time"

	"github.com/google/uuid"
)

// Direction tells who originated a message
type Direction string

const (
	// DirectionIncoming is a message written by the customer
	DirectionIncoming Direction = "incoming"
	// DirectionOutgoing is a message written by an advisor or the system
	DirectionOutgoing Direction = "outgoing"
)

// SystemSender is the from-name used for automatically generated messages
// (welcome mail, status-change audit entries, rejection rationales).
const SystemSender = "EnableHub System"

// AdminMessage is a single entry in the per-customer message thread.
// Outgoing messages are born read on the admin side; incoming messages
// are born read on the customer side.
type AdminMessage struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CustomerID   uuid.UUID `db:"customer_id" json:"customer_id"`
	Subject      string    `db:"subject" json:"subject"`
	Content      string    `db:"content" json:"content"`
	FromName     string    `db:"from_name" json:"from"`
	Direction    Direction `db:"direction" json:"direction"`
	Read         bool      `db:"is_read" json:"read"`
	CustomerRead bool      `db:"customer_read" json:"customer_read"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
