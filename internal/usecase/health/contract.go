package health

import "context"

// CatalogStatus reports how many catalog items are being served.
type CatalogStatus interface {
	Len() int
}

// CachePinger checks rank cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
