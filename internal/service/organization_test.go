package service

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/outletkit/outletkit/internal/api/dto"
	"github.com/outletkit/outletkit/internal/domain/organization"
	"github.com/outletkit/outletkit/internal/domain/record"
	ierr "github.com/outletkit/outletkit/internal/errors"
	"github.com/outletkit/outletkit/internal/geocode"
	"github.com/outletkit/outletkit/internal/logger"
	"github.com/outletkit/outletkit/internal/testutil"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

type OrganizationServiceSuite struct {
	suite.Suite
	ctx      context.Context
	orgStore *organization.Store
	service  OrganizationService
	params   ServiceParams
}

func TestOrganizationServiceSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceSuite))
}

func (s *OrganizationServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.orgStore = organization.NewStore(testutil.NewInMemoryDocumentStore[organization.Snapshot](), logger.L)
	recordStore := record.NewStore(testutil.NewInMemoryDocumentStore[record.Snapshot](), logger.L)
	s.orgStore.Initialize(s.ctx)
	recordStore.Initialize(s.ctx)

	s.params = ServiceParams{
		Logger:            logger.L,
		OrganizationStore: s.orgStore,
		RecordStore:       recordStore,
	}
	s.service = NewOrganizationService(s.params)
}

func (s *OrganizationServiceSuite) validRequest() dto.CreateOrganizationRequest {
	return dto.CreateOrganizationRequest{
		Name:       "Toko Bersih",
		Phone:      "081234567890",
		Province:   "35",
		City:       "3578",
		Address:    "Jl. Pemuda 1",
		PostalCode: "60241",
	}
}

func (s *OrganizationServiceSuite) TestCreateOrganization() {
	resp, err := s.service.CreateOrganization(s.ctx, s.validRequest())
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Equal("toko-bersih", resp.Slug)
	s.Equal("Toko Bersih", resp.Name)
	s.Equal("35", resp.Province)
}

func (s *OrganizationServiceSuite) TestCreateOrganizationMissingName() {
	req := s.validRequest()
	req.Name = ""
	_, err := s.service.CreateOrganization(s.ctx, req)
	s.True(ierr.IsValidation(err))
}

func (s *OrganizationServiceSuite) TestCreateOrganizationUnknownProvince() {
	req := s.validRequest()
	req.Province = "99"
	_, err := s.service.CreateOrganization(s.ctx, req)
	s.True(ierr.IsValidation(err))
}

func (s *OrganizationServiceSuite) TestCreateOrganizationCityOutsideProvince() {
	req := s.validRequest()
	req.City = "3273" // Bandung, not in Jawa Timur
	_, err := s.service.CreateOrganization(s.ctx, req)
	s.True(ierr.IsValidation(err))
}

func (s *OrganizationServiceSuite) TestCreateOrganizationNormalizesLogo() {
	req := s.validRequest()
	req.Logo = base64.StdEncoding.EncodeToString(pngBytes)

	resp, err := s.service.CreateOrganization(s.ctx, req)
	s.NoError(err)
	s.Contains(resp.Logo, "data:image/png;base64,")
}

func (s *OrganizationServiceSuite) TestUpdateOrganizationNormalizesLogo() {
	created, err := s.service.CreateOrganization(s.ctx, s.validRequest())
	s.NoError(err)

	logo := base64.StdEncoding.EncodeToString(pngBytes)
	updated, err := s.service.UpdateOrganization(s.ctx, created.Slug, dto.UpdateOrganizationRequest{Logo: &logo})
	s.NoError(err)
	s.Contains(updated.Logo, "data:image/png;base64,")
}

func (s *OrganizationServiceSuite) TestCreateOrganizationRejectsBadLogo() {
	req := s.validRequest()
	req.Logo = base64.StdEncoding.EncodeToString([]byte("not an image"))

	_, err := s.service.CreateOrganization(s.ctx, req)
	s.True(ierr.IsValidation(err))
}

func (s *OrganizationServiceSuite) TestGetOrganization() {
	created, err := s.service.CreateOrganization(s.ctx, s.validRequest())
	s.NoError(err)

	got, err := s.service.GetOrganization(s.ctx, created.Slug)
	s.NoError(err)
	s.Equal(created.ID, got.ID)

	_, err = s.service.GetOrganization(s.ctx, "does-not-exist")
	s.True(ierr.IsNotFound(err))
}

func (s *OrganizationServiceSuite) TestListOrganizations() {
	_, err := s.service.CreateOrganization(s.ctx, s.validRequest())
	s.NoError(err)
	second := s.validRequest()
	second.Name = "Warung Sebelah"
	_, err = s.service.CreateOrganization(s.ctx, second)
	s.NoError(err)

	resp, err := s.service.ListOrganizations(s.ctx)
	s.NoError(err)
	s.Equal(2, resp.Total)
	s.Len(resp.Items, 2)
}

func (s *OrganizationServiceSuite) TestUpdateOrganization() {
	created, err := s.service.CreateOrganization(s.ctx, s.validRequest())
	s.NoError(err)

	name := "Toko Kinclong"
	updated, err := s.service.UpdateOrganization(s.ctx, created.Slug, dto.UpdateOrganizationRequest{Name: &name})
	s.NoError(err)
	s.Equal("Toko Kinclong", updated.Name)
	s.Equal(created.Slug, updated.Slug)
}

func (s *OrganizationServiceSuite) TestUpdateOrganizationNotFound() {
	name := "Ghost"
	_, err := s.service.UpdateOrganization(s.ctx, "does-not-exist", dto.UpdateOrganizationRequest{Name: &name})
	s.True(ierr.IsNotFound(err))
}

func (s *OrganizationServiceSuite) TestUpdateOrganizationValidatesPatchedLocation() {
	created, err := s.service.CreateOrganization(s.ctx, s.validRequest())
	s.NoError(err)

	// patching only the city must be checked against the existing province
	city := "3273"
	_, err = s.service.UpdateOrganization(s.ctx, created.Slug, dto.UpdateOrganizationRequest{City: &city})
	s.True(ierr.IsValidation(err))
}

func (s *OrganizationServiceSuite) TestDeleteOrganizationMissingIsNoop() {
	s.NoError(s.service.DeleteOrganization(s.ctx, "does-not-exist"))
}

func (s *OrganizationServiceSuite) TestSelectOrganization() {
	created, err := s.service.CreateOrganization(s.ctx, s.validRequest())
	s.NoError(err)

	s.NoError(s.service.SelectOrganization(s.ctx, created.ID))
	s.Equal(created.ID, s.orgStore.SelectedID())

	s.True(ierr.IsNotFound(s.service.SelectOrganization(s.ctx, "unknown-id")))

	s.NoError(s.service.SelectOrganization(s.ctx, ""))
	s.Empty(s.orgStore.SelectedID())
}

func (s *OrganizationServiceSuite) TestResolveLocation() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"address":{"road":"Jl. Pemuda","village":"Embong Kaliasin","city":"Surabaya","state":"Jawa Timur","postcode":"60271"}}`))
	}))
	defer server.Close()

	s.params.Geocoder = geocode.NewClient(server.URL, time.Minute, 0, logger.L)
	svc := NewOrganizationService(s.params)

	addr := svc.ResolveLocation(s.ctx, -7.26, 112.74)
	s.Equal("Jl. Pemuda", addr.Street)
	s.Equal("Surabaya", addr.City)
	s.Equal("Jawa Timur", addr.Province)
	s.Equal("60271", addr.PostalCode)
}

func (s *OrganizationServiceSuite) TestResolveLocationFailureYieldsBlankAddress() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s.params.Geocoder = geocode.NewClient(server.URL, time.Minute, 0, logger.L)
	svc := NewOrganizationService(s.params)

	addr := svc.ResolveLocation(s.ctx, -7.26, 112.74)
	s.Equal(&dto.AddressResponse{}, addr)
}
