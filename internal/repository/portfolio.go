package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
)

func (r *Repository) ListPortfolioImages(ctx context.Context, userID uuid.UUID) ([]model.PortfolioImage, error) {
	var images []model.PortfolioImage
	err := r.db.SelectContext(ctx, &images,
		"SELECT * FROM portfolio_images WHERE user_id = $1 ORDER BY sort_order, created_at", userID)
	return images, err
}

func (r *Repository) CreatePortfolioImage(ctx context.Context, img *model.PortfolioImage) error {
	query := `
		INSERT INTO portfolio_images (user_id, title, image_url, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		img.UserID,
		img.Title,
		img.ImageURL,
		img.SortOrder,
	).Scan(&img.ID, &img.CreatedAt)
}

func (r *Repository) DeletePortfolioImage(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM portfolio_images WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

func (r *Repository) ListPackages(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]model.Package, error) {
	var packages []model.Package
	query := "SELECT * FROM packages WHERE user_id = $1"
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY sort_order, created_at"
	err := r.db.SelectContext(ctx, &packages, query, userID)
	return packages, err
}

func (r *Repository) CreatePackage(ctx context.Context, pkg *model.Package) error {
	query := `
		INSERT INTO packages (user_id, name, description, price_cents, currency, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		pkg.UserID,
		pkg.Name,
		pkg.Description,
		pkg.PriceCents,
		pkg.Currency,
		pkg.IsActive,
		pkg.SortOrder,
	).Scan(&pkg.ID, &pkg.CreatedAt)
}

func (r *Repository) UpdatePackage(ctx context.Context, pkg *model.Package) error {
	query := `
		UPDATE packages SET
			name = $3,
			description = $4,
			price_cents = $5,
			currency = $6,
			is_active = $7,
			sort_order = $8
		WHERE id = $1 AND user_id = $2`

	_, err := r.db.ExecContext(ctx, query,
		pkg.ID,
		pkg.UserID,
		pkg.Name,
		pkg.Description,
		pkg.PriceCents,
		pkg.Currency,
		pkg.IsActive,
		pkg.SortOrder,
	)
	return err
}

func (r *Repository) DeletePackage(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM packages WHERE id = $1 AND user_id = $2", id, userID)
	return err
}
