package listings

import (
	"context"
	"log/slog"
	"strings"

	"imoveis/internal/app/outbox"
	domainlistings "imoveis/internal/domain/listings"
)

// CachePurger drops every cached query result.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// CacheInvalidator purges cached chat answers whenever the catalog changes.
type CacheInvalidator struct {
	Cache  CachePurger
	Logger *slog.Logger
}

// HandleEvent reacts to an event by name. Names may carry a version suffix
// such as "listing.created.v1".
func (c *CacheInvalidator) HandleEvent(ctx context.Context, name string) error {
	if c == nil || c.Cache == nil || !isCatalogChange(name) {
		return nil
	}
	if err := c.Cache.Purge(ctx); err != nil {
		return err
	}
	if c.Logger != nil {
		c.Logger.DebugContext(ctx, "query cache purged", "event", name)
	}
	return nil
}

// HandleRecord adapts HandleEvent to in-process outbox subscribers.
func (c *CacheInvalidator) HandleRecord(ctx context.Context, record outbox.EventRecord) error {
	return c.HandleEvent(ctx, record.Name)
}

func isCatalogChange(name string) bool {
	return strings.HasPrefix(name, domainlistings.EventListingCreated) ||
		strings.HasPrefix(name, domainlistings.EventListingDeleted)
}
