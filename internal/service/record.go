package service

import (
	"context"
	"sort"

	"github.com/outletkit/outletkit/internal/api/dto"
	ierr "github.com/outletkit/outletkit/internal/errors"
	"github.com/outletkit/outletkit/internal/scope"
)

type DataRecordService interface {
	CreateDataRecord(ctx context.Context, req dto.CreateDataRecordRequest) (*dto.DataRecordResponse, error)
	GetDataRecord(ctx context.Context, slug string) (*dto.DataRecordResponse, error)
	// ListDataRecords returns the records visible under the currently
	// selected organization scope, sorted and filtered by the store's UI
	// state.
	ListDataRecords(ctx context.Context) (*dto.ListDataRecordsResponse, error)
	UpdateDataRecord(ctx context.Context, slug string, req dto.UpdateDataRecordRequest) (*dto.DataRecordResponse, error)
	DeleteDataRecord(ctx context.Context, slug string) error
	MarkAsCompleted(ctx context.Context, slug string) error
	GetScopeSummary(ctx context.Context) (*dto.ScopeSummaryResponse, error)
}

type dataRecordService struct {
	ServiceParams
}

func NewDataRecordService(params ServiceParams) DataRecordService {
	return &dataRecordService{ServiceParams: params}
}

func (s *dataRecordService) CreateDataRecord(ctx context.Context, req dto.CreateDataRecordRequest) (*dto.DataRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The organization is resolved for its name only (the business code
	// carries its initials). Creation does not verify the organization still
	// exists: records are never rejected for a dangling reference.
	organizationName := ""
	if org, ok := s.OrganizationStore.GetByID(req.OrganizationID); ok {
		organizationName = org.Name
	}

	rec := s.RecordStore.Create(ctx, req.ToInput(), organizationName)
	return dto.NewDataRecordResponse(rec), nil
}

func (s *dataRecordService) GetDataRecord(ctx context.Context, slug string) (*dto.DataRecordResponse, error) {
	rec, ok := s.RecordStore.GetBySlug(slug)
	if !ok {
		return nil, ierr.NewError("data record not found").
			WithHintf("No record with code %s", slug).
			Mark(ierr.ErrNotFound)
	}
	return dto.NewDataRecordResponse(rec), nil
}

func (s *dataRecordService) ListDataRecords(ctx context.Context) (*dto.ListDataRecordsResponse, error) {
	list := s.RecordStore.VisibleSortedAndFilteredList(s.OrganizationStore.SelectedID())
	resp := &dto.ListDataRecordsResponse{
		Items: make([]dto.DataRecordResponse, len(list)),
		Total: len(list),
	}
	for i, rec := range list {
		resp.Items[i] = *dto.NewDataRecordResponse(rec)
	}
	return resp, nil
}

func (s *dataRecordService) UpdateDataRecord(ctx context.Context, slug string, req dto.UpdateDataRecordRequest) (*dto.DataRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, ok := s.RecordStore.GetBySlug(slug); !ok {
		return nil, ierr.NewError("data record not found").
			WithHintf("No record with code %s", slug).
			Mark(ierr.ErrNotFound)
	}

	s.RecordStore.Update(ctx, slug, req.ToPatch())

	updated, _ := s.RecordStore.GetBySlug(slug)
	return dto.NewDataRecordResponse(updated), nil
}

// DeleteDataRecord and MarkAsCompleted mirror the store's silent no-op
// policy on missing targets.
func (s *dataRecordService) DeleteDataRecord(ctx context.Context, slug string) error {
	s.RecordStore.Delete(ctx, slug)
	return nil
}

func (s *dataRecordService) MarkAsCompleted(ctx context.Context, slug string) error {
	s.RecordStore.MarkAsCompleted(ctx, slug)
	return nil
}

// GetScopeSummary buckets all records by organization scope: one bucket for
// global records, one per organization, organization buckets sorted by label.
func (s *dataRecordService) GetScopeSummary(ctx context.Context) (*dto.ScopeSummaryResponse, error) {
	grouped := scope.GroupByOrganizationScope(s.RecordStore.List())

	resp := &dto.ScopeSummaryResponse{}
	if len(grouped.Global) > 0 {
		resp.Buckets = append(resp.Buckets, dto.ScopeBucketResponse{
			Label: scope.Label("", ""),
			Count: len(grouped.Global),
		})
	}

	orgBuckets := make([]dto.ScopeBucketResponse, 0, len(grouped.ByOrganization))
	for orgID, records := range grouped.ByOrganization {
		name := ""
		if org, ok := s.OrganizationStore.GetByID(orgID); ok {
			name = org.Name
		}
		orgBuckets = append(orgBuckets, dto.ScopeBucketResponse{
			OrganizationID: orgID,
			Label:          scope.Label(orgID, name),
			Count:          len(records),
		})
	}
	sort.Slice(orgBuckets, func(i, j int) bool {
		return orgBuckets[i].Label < orgBuckets[j].Label
	})
	resp.Buckets = append(resp.Buckets, orgBuckets...)
	return resp, nil
}
