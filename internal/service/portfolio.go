package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
	"github.com/snapselect/backend/internal/repository"
)

type PortfolioService struct {
	repo *repository.Repository
}

func NewPortfolioService(repo *repository.Repository) *PortfolioService {
	return &PortfolioService{repo: repo}
}

func (s *PortfolioService) ListImages(ctx context.Context, userID uuid.UUID) ([]model.PortfolioImage, error) {
	return s.repo.ListPortfolioImages(ctx, userID)
}

func (s *PortfolioService) AddImage(ctx context.Context, img *model.PortfolioImage) error {
	return s.repo.CreatePortfolioImage(ctx, img)
}

func (s *PortfolioService) RemoveImage(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeletePortfolioImage(ctx, userID, id)
}

type PackageService struct {
	repo *repository.Repository
}

func NewPackageService(repo *repository.Repository) *PackageService {
	return &PackageService{repo: repo}
}

// ListPackages returns a photographer's pricing packages. activeOnly is used
// for the public page; owners see everything.
func (s *PackageService) ListPackages(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]model.Package, error) {
	return s.repo.ListPackages(ctx, userID, activeOnly)
}

func (s *PackageService) CreatePackage(ctx context.Context, pkg *model.Package) error {
	if pkg.Currency == "" {
		pkg.Currency = "usd"
	}
	return s.repo.CreatePackage(ctx, pkg)
}

func (s *PackageService) UpdatePackage(ctx context.Context, pkg *model.Package) error {
	return s.repo.UpdatePackage(ctx, pkg)
}

func (s *PackageService) DeletePackage(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeletePackage(ctx, userID, id)
}
