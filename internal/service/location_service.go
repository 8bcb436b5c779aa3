package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/authz"
	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateLocationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateLocationRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type LocationService interface {
	ListLocations(ctx context.Context, p authz.Principal) ([]model.Location, error)
	GetLocation(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.Location, bool, error)
	CreateLocation(ctx context.Context, p authz.Principal, req CreateLocationRequest) (*model.Location, error)
	UpdateLocation(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateLocationRequest) (*model.Location, error)
	DeleteLocation(ctx context.Context, p authz.Principal, id uuid.UUID) error
}

type locationService struct {
	db     *gorm.DB
	scoper *authz.Scoper
}

func NewLocationService(db *gorm.DB, scoper *authz.Scoper) LocationService {
	return &locationService{db: db, scoper: scoper}
}

func (s *locationService) ListLocations(ctx context.Context, p authz.Principal) ([]model.Location, error) {
	var locations []model.Location
	err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.Location{}), p, authz.EntityLocation).
		Order("name ASC").
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	return locations, nil
}

func (s *locationService) GetLocation(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.Location, bool, error) {
	return authz.Fetch[model.Location](ctx, s.db, s.scoper, p, authz.EntityLocation, id)
}

func (s *locationService) CreateLocation(ctx context.Context, p authz.Principal, req CreateLocationRequest) (*model.Location, error) {
	if err := authz.Authorize(p, authz.EntityLocation, nil, authz.ActionCreate); err != nil {
		return nil, err
	}

	location := model.Location{Name: req.Name, Description: req.Description}
	if err := s.db.WithContext(ctx).Create(&location).Error; err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return &location, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateLocationRequest) (*model.Location, error) {
	location, found, err := s.GetLocation(ctx, p, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	if err := authz.Authorize(p, authz.EntityLocation, nil, authz.ActionUpdate); err != nil {
		return nil, err
	}

	if req.Name != "" {
		location.Name = req.Name
	}
	if req.Description != nil {
		location.Description = *req.Description
	}

	if err := s.db.WithContext(ctx).Save(location).Error; err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return location, nil
}

// DeleteLocation removes a location unless assets still reference it
func (s *locationService) DeleteLocation(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	_, found, err := s.GetLocation(ctx, p, id)
	if err != nil {
		return fmt.Errorf("failed to fetch location: %w", err)
	}
	if !found {
		return ErrNotFound
	}
	if err := authz.Authorize(p, authz.EntityLocation, nil, authz.ActionDelete); err != nil {
		return err
	}

	var dependents int64
	if err := s.db.WithContext(ctx).Model(&model.Asset{}).
		Where("location_id = ?", id).
		Count(&dependents).Error; err != nil {
		return fmt.Errorf("failed to count dependent assets: %w", err)
	}
	if dependents > 0 {
		return errors.New("cannot delete a location with dependent assets")
	}

	return s.db.WithContext(ctx).Delete(&model.Location{}, "id = ?", id).Error
}
