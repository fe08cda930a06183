package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
	"github.com/fleetstack/rental_ledger_app/internal/middleware"
)

// assetService seeds and reads fleet asset reference data.
type assetService struct {
	assetRepo portsrepo.AssetRepositoryFacade
}

// NewAssetService creates a new asset service.
func NewAssetService(assetRepo portsrepo.AssetRepositoryFacade) portssvc.AssetSvcFacade {
	return &assetService{
		assetRepo: assetRepo,
	}
}

// Ensure assetService implements the portssvc.AssetSvcFacade interface
var _ portssvc.AssetSvcFacade = (*assetService)(nil)

// RegisterAsset persists a new rentable asset. Callers may supply their own
// fleet identifier; one is generated when absent.
func (s *assetService) RegisterAsset(ctx context.Context, req dto.CreateAssetRequest, actorID string) (*domain.Asset, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.DailyRate.IsNegative() {
		return nil, fmt.Errorf("%w: daily rate cannot be negative", apperrors.ErrValidation)
	}

	assetID := req.AssetID
	if assetID == "" {
		assetID = uuid.NewString()
	}
	now := time.Now().UTC()

	asset := domain.Asset{
		AssetID:      assetID,
		Name:         req.Name,
		Status:       domain.AssetAvailable,
		DailyRate:    req.DailyRate,
		CurrencyCode: req.CurrencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.assetRepo.SaveAsset(ctx, asset); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("asset %s already exists: %w", assetID, apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save asset", slog.String("asset_id", assetID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save asset: %w", err)
	}

	logger.Info("Asset registered", slog.String("asset_id", asset.AssetID), slog.String("name", asset.Name))
	return &asset, nil
}

// GetAssetByID retrieves a specific asset.
func (s *assetService) GetAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	return s.assetRepo.FindAssetByID(ctx, assetID)
}
