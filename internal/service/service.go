package service

import (
	"github.com/outletkit/outletkit/internal/domain/organization"
	"github.com/outletkit/outletkit/internal/domain/record"
	"github.com/outletkit/outletkit/internal/geocode"
	"github.com/outletkit/outletkit/internal/logger"
)

// ServiceParams bundles the dependencies shared by all services so
// constructors stay stable as the graph grows.
type ServiceParams struct {
	Logger            *logger.Logger
	OrganizationStore *organization.Store
	RecordStore       *record.Store
	Geocoder          *geocode.Client
}
