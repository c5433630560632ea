package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/outletkit/outletkit/internal/domain/record"
	ierr "github.com/outletkit/outletkit/internal/errors"
	"github.com/outletkit/outletkit/internal/types"
	"github.com/outletkit/outletkit/internal/validator"
)

type CreateDataRecordRequest struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Price          string `json:"price" validate:"required"`
	Quantity       string `json:"quantity" validate:"required"`
	Weight         string `json:"weight" validate:"required"`
	Date           string `json:"date" validate:"required"`
	Notes          string `json:"notes" validate:"required"`
}

// UpdateDataRecordRequest is a partial update; omitted fields are left
// untouched. Status may be patched here because cancellation goes through the
// regular edit flow.
type UpdateDataRecordRequest struct {
	OrganizationID *string             `json:"organization_id,omitempty" validate:"omitempty,min=1"`
	Name           *string             `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone          *string             `json:"phone,omitempty" validate:"omitempty,min=1"`
	Price          *string             `json:"price,omitempty" validate:"omitempty,min=1"`
	Quantity       *string             `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Weight         *string             `json:"weight,omitempty" validate:"omitempty,min=1"`
	Date           *string             `json:"date,omitempty" validate:"omitempty,min=1"`
	Notes          *string             `json:"notes,omitempty"`
	Status         *types.RecordStatus `json:"status,omitempty"`
}

type DataRecordResponse struct {
	ID             string `json:"id"`
	Slug           string `json:"slug"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Price          string `json:"price"`
	Quantity       string `json:"quantity"`
	Weight         string `json:"weight"`
	Date           string `json:"date"`
	Notes          string `json:"notes"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type ListDataRecordsResponse struct {
	Items []DataRecordResponse `json:"items"`
	Total int                  `json:"total"`
}

// ScopeSummaryResponse is the aggregate view of records bucketed by
// organization scope.
type ScopeSummaryResponse struct {
	Buckets []ScopeBucketResponse `json:"buckets"`
}

type ScopeBucketResponse struct {
	OrganizationID string `json:"organization_id,omitempty"`
	Label          string `json:"label"`
	Count          int    `json:"count"`
}

func (r *CreateDataRecordRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := validateAmount("price", r.Price); err != nil {
		return err
	}
	if err := validateAmount("weight", r.Weight); err != nil {
		return err
	}
	if err := validateQuantity(r.Quantity); err != nil {
		return err
	}
	return nil
}

func (r *CreateDataRecordRequest) ToInput() record.CreateInput {
	return record.CreateInput{
		OrganizationID: r.OrganizationID,
		Name:           r.Name,
		Phone:          r.Phone,
		Price:          r.Price,
		Quantity:       r.Quantity,
		Weight:         r.Weight,
		Date:           r.Date,
		Notes:          r.Notes,
	}
}

func (r *UpdateDataRecordRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Price != nil {
		if err := validateAmount("price", *r.Price); err != nil {
			return err
		}
	}
	if r.Weight != nil {
		if err := validateAmount("weight", *r.Weight); err != nil {
			return err
		}
	}
	if r.Quantity != nil {
		if err := validateQuantity(*r.Quantity); err != nil {
			return err
		}
	}
	if r.Status != nil && !r.Status.Validate() {
		return ierr.NewError("invalid status").
			WithHintf("Status must be one of draft, completed, cancelled; got %s", *r.Status).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *UpdateDataRecordRequest) ToPatch() record.Patch {
	return record.Patch{
		OrganizationID: r.OrganizationID,
		Name:           r.Name,
		Phone:          r.Phone,
		Price:          r.Price,
		Quantity:       r.Quantity,
		Weight:         r.Weight,
		Date:           r.Date,
		Notes:          r.Notes,
		Status:         r.Status,
	}
}

func NewDataRecordResponse(rec record.Record) *DataRecordResponse {
	return &DataRecordResponse{
		ID:             rec.ID,
		Slug:           rec.Slug,
		OrganizationID: rec.OrganizationID,
		Name:           rec.Name,
		Phone:          rec.Phone,
		Price:          rec.Price,
		Quantity:       rec.Quantity,
		Weight:         rec.Weight,
		Date:           rec.Date,
		Notes:          rec.Notes,
		Status:         string(rec.Status),
		CreatedAt:      rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      rec.UpdatedAt.Format(time.RFC3339),
	}
}

// validateAmount checks that a string-encoded money/weight field parses as a
// non-negative decimal. The stores keep the original string; parsing here is
// validation only.
func validateAmount(field, value string) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Field %s must be a decimal number", field).
			Mark(ierr.ErrValidation)
	}
	if d.IsNegative() {
		return ierr.NewError("negative amount").
			WithHintf("Field %s must not be negative", field).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func validateQuantity(value string) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Field quantity must be a number").
			Mark(ierr.ErrValidation)
	}
	if d.IsNegative() || !d.IsInteger() {
		return ierr.NewError("invalid quantity").
			WithHint("Field quantity must be a non-negative whole number").
			Mark(ierr.ErrValidation)
	}
	return nil
}
