package dto

import (
	"time"

	"github.com/outletkit/outletkit/internal/domain/organization"
	"github.com/outletkit/outletkit/internal/validator"
)

type CreateOrganizationRequest struct {
	Logo       string   `json:"logo,omitempty"`
	Name       string   `json:"name" validate:"required"`
	Phone      string   `json:"phone" validate:"required"`
	Province   string   `json:"province" validate:"required"`
	City       string   `json:"city" validate:"required"`
	Address    string   `json:"address" validate:"required"`
	PostalCode string   `json:"postal_code" validate:"required"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

// UpdateOrganizationRequest is a partial update; omitted fields are left
// untouched.
type UpdateOrganizationRequest struct {
	Logo       *string  `json:"logo,omitempty"`
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone      *string  `json:"phone,omitempty" validate:"omitempty,min=1"`
	Province   *string  `json:"province,omitempty" validate:"omitempty,min=1"`
	City       *string  `json:"city,omitempty" validate:"omitempty,min=1"`
	Address    *string  `json:"address,omitempty" validate:"omitempty,min=1"`
	PostalCode *string  `json:"postal_code,omitempty" validate:"omitempty,min=1"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

type OrganizationResponse struct {
	ID         string   `json:"id"`
	Slug       string   `json:"slug"`
	Logo       string   `json:"logo,omitempty"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Province   string   `json:"province"`
	City       string   `json:"city"`
	Address    string   `json:"address"`
	PostalCode string   `json:"postal_code"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

type ListOrganizationsResponse struct {
	Items []OrganizationResponse `json:"items"`
	Total int                    `json:"total"`
}

// AddressResponse carries best-effort reverse geocoding results; blank fields
// mean the lookup could not resolve them.
type AddressResponse struct {
	Street     string `json:"street,omitempty"`
	Village    string `json:"village,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

func (r *CreateOrganizationRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateOrganizationRequest) ToInput() organization.CreateInput {
	return organization.CreateInput{
		Logo:       r.Logo,
		Name:       r.Name,
		Phone:      r.Phone,
		Province:   r.Province,
		City:       r.City,
		Address:    r.Address,
		PostalCode: r.PostalCode,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
	}
}

func (r *UpdateOrganizationRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *UpdateOrganizationRequest) ToPatch() organization.Patch {
	return organization.Patch{
		Logo:       r.Logo,
		Name:       r.Name,
		Phone:      r.Phone,
		Province:   r.Province,
		City:       r.City,
		Address:    r.Address,
		PostalCode: r.PostalCode,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
	}
}

func NewOrganizationResponse(o organization.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:         o.ID,
		Slug:       o.Slug,
		Logo:       o.Logo,
		Name:       o.Name,
		Phone:      o.Phone,
		Province:   o.Province,
		City:       o.City,
		Address:    o.Address,
		PostalCode: o.PostalCode,
		Latitude:   o.Latitude,
		Longitude:  o.Longitude,
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  o.UpdatedAt.Format(time.RFC3339),
	}
}
