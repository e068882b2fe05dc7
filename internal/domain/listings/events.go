package listings

import (
	"time"
)

const (
	EventListingCreated = "listing.created"
	EventListingDeleted = "listing.deleted"
)

type ListingCreatedEvent struct {
	ListingID    ListingID `json:"listing_id"`
	Category     Category  `json:"category"`
	City         string    `json:"city"`
	Neighborhood string    `json:"neighborhood"`
	At           time.Time `json:"at"`
}

func (e ListingCreatedEvent) EventName() string     { return EventListingCreated }
func (e ListingCreatedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingCreatedEvent) OccurredAt() time.Time { return e.At }

type ListingDeletedEvent struct {
	ListingID ListingID `json:"listing_id"`
	At        time.Time `json:"at"`
}

func (e ListingDeletedEvent) EventName() string     { return EventListingDeleted }
func (e ListingDeletedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingDeletedEvent) OccurredAt() time.Time { return e.At }
