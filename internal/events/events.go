// Package events defines the credit lifecycle notifications and their wire
// encoding. Delivery is best-effort: publishers report failures but callers
// never roll back a mutation because of them.
package events

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Topic names are fixed.
const (
	TopicCreditEvents        = "credit-events"
	TopicCreditNotifications = "credit-notifications"
)

// Partition counts used when provisioning the topics.
const (
	CreditEventsPartitions        = 3
	CreditNotificationsPartitions = 2
)

type Type string

const (
	TypeCreated       Type = "CREATED"
	TypeUpdated       Type = "UPDATED"
	TypeDeleted       Type = "DELETED"
	TypeStatusChanged Type = "STATUS_CHANGED"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeCreated, TypeUpdated, TypeDeleted, TypeStatusChanged:
		return true
	}
	return false
}

// Event is one lifecycle notification. Detail is the constituted credit
// number, or the new status for STATUS_CHANGED.
type Event struct {
	Type     Type
	CreditID int64
	Detail   string
}

func Created(id int64, number string) Event {
	return Event{Type: TypeCreated, CreditID: id, Detail: number}
}

func Updated(id int64, number string) Event {
	return Event{Type: TypeUpdated, CreditID: id, Detail: number}
}

func Deleted(id int64, number string) Event {
	return Event{Type: TypeDeleted, CreditID: id, Detail: number}
}

func StatusChanged(id int64, status string) Event {
	return Event{Type: TypeStatusChanged, CreditID: id, Detail: status}
}

// Key partitions events by credit so one credit's events stay ordered.
func (e Event) Key() string {
	return strconv.FormatInt(e.CreditID, 10)
}

// Encode renders the wire value TYPE:creditId:detail.
func (e Event) Encode() string {
	return fmt.Sprintf("%s:%d:%s", e.Type, e.CreditID, e.Detail)
}

func (e Event) String() string { return e.Encode() }

// Parse reverses Encode. Only the first two separators are significant, so
// the detail may itself contain ':'.
func Parse(value string) (Event, error) {
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 {
		return Event{}, fmt.Errorf("malformed event %q: want TYPE:id:detail", value)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("malformed event %q: credit id: %w", value, err)
	}
	return Event{Type: Type(parts[0]), CreditID: id, Detail: parts[2]}, nil
}

// Publisher delivers an event to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev Event) error
}

// Closer is implemented by publishers holding broker connections.
type Closer interface {
	Close() error
}
