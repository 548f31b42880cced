package types

import "time"

// OutboxRecord is the response of a committed state transition that has not
// been delivered to the chain writer yet.
type OutboxRecord struct {
	ID         string
	Transition string
	Response   Response
	CreatedAt  time.Time
}
