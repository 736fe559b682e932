package favorite

import "context"

// Repository is read-only: the catalog subsystem annotates products with
// favorite membership but never mutates it.
type Repository interface {
	IsFavorite(ctx context.Context, userID, productID string) (bool, error)
	// FilterFavorites returns the subset of productIDs the user has
	// favorited, as a membership map.
	FilterFavorites(ctx context.Context, userID string, productIDs []string) (map[string]bool, error)
}
