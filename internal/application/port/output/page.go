package output

import (
	"context"
	"time"

	"webtools/internal/domain/entity"
)

// PagePort is the DOM of the page the bindings act on. Every lookup checks
// once: a missing element is reported as (false, nil) by Has, never waited for.
type PagePort interface {
	Location(ctx context.Context) (entity.PageLocation, error)

	Has(ctx context.Context, selector string) (bool, error)
	Count(ctx context.Context, selector string) (int, error)
	Text(ctx context.Context, selector string) (string, error)
	Value(ctx context.Context, selector string) (string, error)
	HTML(ctx context.Context, selector string) (string, error)
	RegionText(ctx context.Context, selector string) (string, error)
	Attribute(ctx context.Context, selector, name string) (string, bool, error)

	Click(ctx context.Context, selector string) error
	ClearEditable(ctx context.Context, selector string) error
	SetHash(ctx context.Context, hash string) error
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	Close()
}
