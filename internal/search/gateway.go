package search

import (
	"context"

	"recruitment-intake/internal/backend"
)

// RestGateway searches through the backend's filtered-search endpoint. This
// is the primary gateway; the elasticsearch one serves deployments with
// direct index access.
type RestGateway struct {
	client *backend.Client
}

// NewRestGateway wraps a backend client as a search gateway.
func NewRestGateway(client *backend.Client) *RestGateway {
	return &RestGateway{client: client}
}

func (g *RestGateway) Search(ctx context.Context, c Criteria) ([]backend.Profile, error) {
	return g.client.FilteredSearch(ctx, c.ToQuery())
}
