package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/outletkit/outletkit/internal/api/dto"
	"github.com/outletkit/outletkit/internal/domain/organization"
	"github.com/outletkit/outletkit/internal/domain/record"
	ierr "github.com/outletkit/outletkit/internal/errors"
	"github.com/outletkit/outletkit/internal/logger"
	"github.com/outletkit/outletkit/internal/testutil"
	"github.com/outletkit/outletkit/internal/types"
)

type DataRecordServiceSuite struct {
	suite.Suite
	ctx         context.Context
	orgStore    *organization.Store
	recordStore *record.Store
	service     DataRecordService
	org         organization.Organization
}

func TestDataRecordServiceSuite(t *testing.T) {
	suite.Run(t, new(DataRecordServiceSuite))
}

func (s *DataRecordServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.orgStore = organization.NewStore(testutil.NewInMemoryDocumentStore[organization.Snapshot](), logger.L)
	s.recordStore = record.NewStore(testutil.NewInMemoryDocumentStore[record.Snapshot](), logger.L)
	s.orgStore.Initialize(s.ctx)
	s.recordStore.Initialize(s.ctx)

	s.org = s.orgStore.Create(s.ctx, organization.CreateInput{Name: "Toko Bersih", Province: "35", City: "3578"})

	s.service = NewDataRecordService(ServiceParams{
		Logger:            logger.L,
		OrganizationStore: s.orgStore,
		RecordStore:       s.recordStore,
	})
}

func (s *DataRecordServiceSuite) validRequest() dto.CreateDataRecordRequest {
	return dto.CreateDataRecordRequest{
		OrganizationID: s.org.ID,
		Name:           "Andi",
		Phone:          "081234567890",
		Price:          "15000",
		Quantity:       "2",
		Weight:         "3.5",
		Date:           "2026-08-29",
		Notes:          "reguler",
	}
}

func (s *DataRecordServiceSuite) TestCreateDataRecord() {
	resp, err := s.service.CreateDataRecord(s.ctx, s.validRequest())
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Regexp(`^ORD-\d{6}-TB-[A-Z0-9]{5}$`, resp.Slug)
	s.Equal(string(types.StatusDraft), resp.Status)
	s.Equal(s.org.ID, resp.OrganizationID)
}

func (s *DataRecordServiceSuite) TestCreateDataRecordUnknownOrganizationStillSucceeds() {
	req := s.validRequest()
	req.OrganizationID = "dangling-id"

	resp, err := s.service.CreateDataRecord(s.ctx, req)
	s.NoError(err)
	// no organization name, so the initials segment is empty
	s.Regexp(`^ORD-\d{6}--[A-Z0-9]{5}$`, resp.Slug)
	s.Equal("dangling-id", resp.OrganizationID)
}

func (s *DataRecordServiceSuite) TestCreateDataRecordValidation() {
	req := s.validRequest()
	req.Price = "abc"
	_, err := s.service.CreateDataRecord(s.ctx, req)
	s.True(ierr.IsValidation(err))

	req = s.validRequest()
	req.Price = "-1"
	_, err = s.service.CreateDataRecord(s.ctx, req)
	s.True(ierr.IsValidation(err))

	req = s.validRequest()
	req.Quantity = "2.5"
	_, err = s.service.CreateDataRecord(s.ctx, req)
	s.True(ierr.IsValidation(err))

	req = s.validRequest()
	req.Name = ""
	_, err = s.service.CreateDataRecord(s.ctx, req)
	s.True(ierr.IsValidation(err))
}

func (s *DataRecordServiceSuite) TestGetDataRecord() {
	created, err := s.service.CreateDataRecord(s.ctx, s.validRequest())
	s.NoError(err)

	got, err := s.service.GetDataRecord(s.ctx, created.Slug)
	s.NoError(err)
	s.Equal(created.ID, got.ID)

	_, err = s.service.GetDataRecord(s.ctx, "ORD-000000-XX-ZZZZZ")
	s.True(ierr.IsNotFound(err))
}

func (s *DataRecordServiceSuite) TestListDataRecordsHonorsSelectedScope() {
	_, err := s.service.CreateDataRecord(s.ctx, s.validRequest())
	s.NoError(err)

	other := s.orgStore.Create(s.ctx, organization.CreateInput{Name: "Warung Sebelah"})
	req := s.validRequest()
	req.OrganizationID = other.ID
	_, err = s.service.CreateDataRecord(s.ctx, req)
	s.NoError(err)

	// no selection: everything is visible
	resp, err := s.service.ListDataRecords(s.ctx)
	s.NoError(err)
	s.Equal(2, resp.Total)

	s.orgStore.Select(s.ctx, s.org.ID)
	resp, err = s.service.ListDataRecords(s.ctx)
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal(s.org.ID, resp.Items[0].OrganizationID)
}

func (s *DataRecordServiceSuite) TestUpdateDataRecord() {
	created, err := s.service.CreateDataRecord(s.ctx, s.validRequest())
	s.NoError(err)

	price := "20000"
	updated, err := s.service.UpdateDataRecord(s.ctx, created.Slug, dto.UpdateDataRecordRequest{Price: &price})
	s.NoError(err)
	s.Equal("20000", updated.Price)
	s.Equal("Andi", updated.Name)
}

func (s *DataRecordServiceSuite) TestUpdateDataRecordNotFound() {
	price := "20000"
	_, err := s.service.UpdateDataRecord(s.ctx, "ORD-000000-XX-ZZZZZ", dto.UpdateDataRecordRequest{Price: &price})
	s.True(ierr.IsNotFound(err))
}

func (s *DataRecordServiceSuite) TestUpdateDataRecordInvalidStatus() {
	created, err := s.service.CreateDataRecord(s.ctx, s.validRequest())
	s.NoError(err)

	bad := types.RecordStatus("shipped")
	_, err = s.service.UpdateDataRecord(s.ctx, created.Slug, dto.UpdateDataRecordRequest{Status: &bad})
	s.True(ierr.IsValidation(err))
}

func (s *DataRecordServiceSuite) TestMarkAsCompleted() {
	created, err := s.service.CreateDataRecord(s.ctx, s.validRequest())
	s.NoError(err)

	s.NoError(s.service.MarkAsCompleted(s.ctx, created.Slug))
	got, err := s.service.GetDataRecord(s.ctx, created.Slug)
	s.NoError(err)
	s.Equal(string(types.StatusCompleted), got.Status)

	// missing targets are silent no-ops
	s.NoError(s.service.MarkAsCompleted(s.ctx, "ORD-000000-XX-ZZZZZ"))
}

func (s *DataRecordServiceSuite) TestDeleteDataRecord() {
	created, err := s.service.CreateDataRecord(s.ctx, s.validRequest())
	s.NoError(err)

	s.NoError(s.service.DeleteDataRecord(s.ctx, created.Slug))
	_, err = s.service.GetDataRecord(s.ctx, created.Slug)
	s.True(ierr.IsNotFound(err))

	s.NoError(s.service.DeleteDataRecord(s.ctx, created.Slug))
}

func (s *DataRecordServiceSuite) TestGetScopeSummary() {
	_, err := s.service.CreateDataRecord(s.ctx, s.validRequest())
	s.NoError(err)
	_, err = s.service.CreateDataRecord(s.ctx, s.validRequest())
	s.NoError(err)

	other := s.orgStore.Create(s.ctx, organization.CreateInput{Name: "Warung Sebelah"})
	req := s.validRequest()
	req.OrganizationID = other.ID
	_, err = s.service.CreateDataRecord(s.ctx, req)
	s.NoError(err)

	resp, err := s.service.GetScopeSummary(s.ctx)
	s.NoError(err)
	s.Len(resp.Buckets, 2)
	// organization buckets sorted by label
	s.Equal("Toko Bersih", resp.Buckets[0].Label)
	s.Equal(2, resp.Buckets[0].Count)
	s.Equal("Warung Sebelah", resp.Buckets[1].Label)
	s.Equal(1, resp.Buckets[1].Count)
}
