package ports

import "context"

// Fetcher resolves a media locator into its bytes.
type Fetcher interface {
	// Fetch downloads or reads the resource behind locator.
	Fetch(ctx context.Context, locator string) ([]byte, error)
}
