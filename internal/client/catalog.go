package client

import (
	"context"
	"fmt"

	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
)

// CatalogClient reads catalog records through an authorized session. It
// implements litnet.Catalog.
type CatalogClient struct {
	session litnet.Session
}

// NewCatalogClient authorizes session and returns a client over it. No client
// is returned when authorization fails.
func NewCatalogClient(ctx context.Context, session litnet.Session) (*CatalogClient, error) {
	if session == nil {
		return nil, litnet.ErrSessionRequired
	}

	_, err := session.Authorize(ctx)
	if err != nil {
		return nil, fmt.Errorf("authorizing session: %w", err)
	}

	return &CatalogClient{session: session}, nil
}

// Session returns the underlying session.
func (c *CatalogClient) Session() litnet.Session {
	return c.session
}

// Book implements litnet.Catalog.Book.
func (c *CatalogClient) Book(ctx context.Context, bookID int) (litnet.Record, error) {
	return c.session.Request(ctx, BookEndpoint(bookID), nil)
}

// BookEndpoint returns the lookup endpoint for bookID.
func BookEndpoint(bookID int) string {
	return fmt.Sprintf(constants.BookEndpointFormat, bookID)
}
