package service

import (
	"context"

	"github.com/outletkit/outletkit/internal/api/dto"
	ierr "github.com/outletkit/outletkit/internal/errors"
	"github.com/outletkit/outletkit/internal/locations"
	"github.com/outletkit/outletkit/internal/media"
)

type OrganizationService interface {
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error)
	GetOrganization(ctx context.Context, slug string) (*dto.OrganizationResponse, error)
	ListOrganizations(ctx context.Context) (*dto.ListOrganizationsResponse, error)
	UpdateOrganization(ctx context.Context, slug string, req dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error)
	DeleteOrganization(ctx context.Context, slug string) error
	SelectOrganization(ctx context.Context, id string) error
	ResolveLocation(ctx context.Context, latitude, longitude float64) *dto.AddressResponse
}

type organizationService struct {
	ServiceParams
}

func NewOrganizationService(params ServiceParams) OrganizationService {
	return &organizationService{ServiceParams: params}
}

func (s *organizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := validateLocation(req.Province, req.City); err != nil {
		return nil, err
	}

	input := req.ToInput()
	if req.Logo != "" {
		logo, err := media.NormalizeLogo(req.Logo)
		if err != nil {
			return nil, err
		}
		input.Logo = logo
		s.Logger.Debugw("normalized organization logo", "bytes", media.DecodedSize(logo))
	}

	org := s.OrganizationStore.Create(ctx, input)
	return dto.NewOrganizationResponse(org), nil
}

func (s *organizationService) GetOrganization(ctx context.Context, slug string) (*dto.OrganizationResponse, error) {
	org, ok := s.OrganizationStore.GetBySlug(slug)
	if !ok {
		return nil, ierr.NewError("organization not found").
			WithHintf("No organization with slug %s", slug).
			Mark(ierr.ErrNotFound)
	}
	return dto.NewOrganizationResponse(org), nil
}

func (s *organizationService) ListOrganizations(ctx context.Context) (*dto.ListOrganizationsResponse, error) {
	list := s.OrganizationStore.SortedAndFilteredList()
	resp := &dto.ListOrganizationsResponse{
		Items: make([]dto.OrganizationResponse, len(list)),
		Total: len(list),
	}
	for i, org := range list {
		resp.Items[i] = *dto.NewOrganizationResponse(org)
	}
	return resp, nil
}

func (s *organizationService) UpdateOrganization(ctx context.Context, slug string, req dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, ok := s.OrganizationStore.GetBySlug(slug)
	if !ok {
		return nil, ierr.NewError("organization not found").
			WithHintf("No organization with slug %s", slug).
			Mark(ierr.ErrNotFound)
	}

	province := existing.Province
	if req.Province != nil {
		province = *req.Province
	}
	city := existing.City
	if req.City != nil {
		city = *req.City
	}
	if req.Province != nil || req.City != nil {
		if err := validateLocation(province, city); err != nil {
			return nil, err
		}
	}

	patch := req.ToPatch()
	if req.Logo != nil && *req.Logo != "" {
		logo, err := media.NormalizeLogo(*req.Logo)
		if err != nil {
			return nil, err
		}
		patch.Logo = &logo
		s.Logger.Debugw("normalized organization logo", "bytes", media.DecodedSize(logo))
	}

	s.OrganizationStore.Update(ctx, slug, patch)

	updated, _ := s.OrganizationStore.GetBySlug(slug)
	return dto.NewOrganizationResponse(updated), nil
}

// DeleteOrganization mirrors the store's silent no-op policy: deleting a
// missing slug is not an error.
func (s *organizationService) DeleteOrganization(ctx context.Context, slug string) error {
	s.OrganizationStore.Delete(ctx, slug)
	return nil
}

func (s *organizationService) SelectOrganization(ctx context.Context, id string) error {
	if id != "" {
		if _, ok := s.OrganizationStore.GetByID(id); !ok {
			return ierr.NewError("organization not found").
				WithHintf("No organization with id %s", id).
				Mark(ierr.ErrNotFound)
		}
	}
	s.OrganizationStore.Select(ctx, id)
	return nil
}

// ResolveLocation is best-effort: lookup failures leave every field blank.
func (s *organizationService) ResolveLocation(ctx context.Context, latitude, longitude float64) *dto.AddressResponse {
	addr, err := s.Geocoder.Reverse(ctx, latitude, longitude)
	if err != nil {
		return &dto.AddressResponse{}
	}
	return &dto.AddressResponse{
		Street:     addr.Street,
		Village:    addr.Village,
		District:   addr.District,
		City:       addr.City,
		Province:   addr.Province,
		PostalCode: addr.PostalCode,
	}
}

func validateLocation(provinceCode, cityCode string) error {
	if !locations.IsValidProvince(provinceCode) {
		return ierr.NewError("unknown province").
			WithHintf("Province code %s is not in the dataset", provinceCode).
			Mark(ierr.ErrValidation)
	}
	if !locations.IsValidCity(provinceCode, cityCode) {
		return ierr.NewError("unknown city").
			WithHintf("City code %s does not belong to province %s", cityCode, provinceCode).
			Mark(ierr.ErrValidation)
	}
	return nil
}
