package repository

import (
	"context"

	"cardfolio-backend/internal/domains/feed/model"
)

// FeedRepository reads the public projection of card requests.
type FeedRepository interface {
	// ListPublished returns up to q.Limit published cards in the planned
	// order, starting strictly after the decoded cursor position.
	ListPublished(ctx context.Context, q model.PageQuery) ([]model.CardSummary, error)

	// GetPublicBySlug returns a published card by its share slug.
	GetPublicBySlug(ctx context.Context, slug string) (*model.PublicCard, error)

	// ListThemes returns the distinct themes that currently have at least
	// one published card, for the gallery index.
	ListThemes(ctx context.Context) ([]string, error)
}
