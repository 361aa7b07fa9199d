package repository

import "context"

// LogoFetcher returns an embeddable logo URL, or "" when no usable logo exists.
type LogoFetcher interface {
	FetchLogo(ctx context.Context, company string) string
}
