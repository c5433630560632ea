// Command outletkit is a thin console front end over the entity stores: the
// same create/list/complete flows the UI drives, without the UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/outletkit/outletkit/internal/api/dto"
	"github.com/outletkit/outletkit/internal/config"
	"github.com/outletkit/outletkit/internal/domain/organization"
	"github.com/outletkit/outletkit/internal/domain/record"
	"github.com/outletkit/outletkit/internal/geocode"
	"github.com/outletkit/outletkit/internal/logger"
	"github.com/outletkit/outletkit/internal/service"
	"github.com/outletkit/outletkit/internal/storage"
	"github.com/outletkit/outletkit/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	orgStore    *organization.Store
	recordStore *record.Store
	orgs        service.OrganizationService
	records     service.DataRecordService
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		return err
	}

	orgDoc := storage.NewSQLiteDocument[organization.Snapshot](storage.Config{
		Dir:           cfg.Storage.Dir,
		DBName:        cfg.Storage.OrganizationsDBName,
		Collection:    "organizations",
		Key:           "data",
		SchemaVersion: cfg.Storage.OrganizationsSchemaVersion,
	}, log)
	recordDoc := storage.NewSQLiteDocument[record.Snapshot](storage.Config{
		Dir:           cfg.Storage.Dir,
		DBName:        cfg.Storage.RecordsDBName,
		Collection:    "data",
		Key:           "data",
		SchemaVersion: cfg.Storage.RecordsSchemaVersion,
	}, log)

	ctx := context.Background()
	a := &app{
		orgStore:    organization.NewStore(orgDoc, log),
		recordStore: record.NewStore(recordDoc, log),
	}
	a.orgStore.Initialize(ctx)
	a.recordStore.Initialize(ctx)

	cacheTTL, err := time.ParseDuration(cfg.Geocode.CacheTTL)
	if err != nil {
		cacheTTL = 15 * time.Minute
	}
	params := service.ServiceParams{
		Logger:            log,
		OrganizationStore: a.orgStore,
		RecordStore:       a.recordStore,
		Geocoder:          geocode.NewClient(cfg.Geocode.Endpoint, cacheTTL, cfg.Geocode.MaxRetries, log),
	}
	a.orgs = service.NewOrganizationService(params)
	a.records = service.NewDataRecordService(params)

	defer func() {
		a.orgStore.Flush()
		a.recordStore.Flush()
	}()

	command, args := commandFor(cfg.Deployment.Mode, os.Args[1:])
	if command == "" {
		return usage()
	}
	return a.dispatch(ctx, command, args)
}

// commandFor resolves the command to run: seed mode makes the binary seed and
// exit regardless of argv, otherwise the first argument selects the command.
func commandFor(mode types.RunMode, args []string) (string, []string) {
	if mode == types.ModeSeed {
		return "seed", nil
	}
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

func usage() error {
	fmt.Println(`usage: outletkit <command> [flags]

commands:
  orgs            list organizations
  org-add         create an organization
  org-select      select the organization scope (by slug, empty clears)
  records         list data records visible under the selected scope
  record-add      create a data record in the selected organization
  complete        mark a data record as completed (by code)
  delete          delete a data record (by code)
  summary         record counts bucketed by organization scope
  seed            create demo organizations and records`)
	return nil
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "orgs":
		return a.listOrganizations(ctx)
	case "org-add":
		return a.addOrganization(ctx, args)
	case "org-select":
		return a.selectOrganization(ctx, args)
	case "records":
		return a.listRecords(ctx)
	case "record-add":
		return a.addRecord(ctx, args)
	case "complete":
		return requireSlug(args, func(slug string) error { return a.records.MarkAsCompleted(ctx, slug) })
	case "delete":
		return requireSlug(args, func(slug string) error { return a.records.DeleteDataRecord(ctx, slug) })
	case "summary":
		return a.summary(ctx)
	case "seed":
		return a.seed(ctx)
	default:
		return usage()
	}
}

func (a *app) listOrganizations(ctx context.Context) error {
	resp, err := a.orgs.ListOrganizations(ctx)
	if err != nil {
		return err
	}
	selected := a.orgStore.SelectedID()
	for _, org := range resp.Items {
		marker := " "
		if org.ID == selected {
			marker = "*"
		}
		fmt.Printf("%s %-24s %-20s %s, %s\n", marker, org.Slug, org.Name, org.City, org.Province)
	}
	fmt.Printf("%d organization(s)\n", resp.Total)
	return nil
}

func (a *app) addOrganization(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("org-add", flag.ExitOnError)
	req := dto.CreateOrganizationRequest{}
	fs.StringVar(&req.Name, "name", "", "organization name")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	fs.StringVar(&req.Province, "province", "", "province code")
	fs.StringVar(&req.City, "city", "", "city code")
	fs.StringVar(&req.Address, "address", "", "street address")
	fs.StringVar(&req.PostalCode, "postal", "", "postal code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.orgs.CreateOrganization(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", resp.Slug, resp.ID)
	return nil
}

func (a *app) selectOrganization(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.orgs.SelectOrganization(ctx, "")
	}
	org, err := a.orgs.GetOrganization(ctx, args[0])
	if err != nil {
		return err
	}
	return a.orgs.SelectOrganization(ctx, org.ID)
}

func (a *app) listRecords(ctx context.Context) error {
	resp, err := a.records.ListDataRecords(ctx)
	if err != nil {
		return err
	}
	for _, rec := range resp.Items {
		fmt.Printf("%-28s %-20s %-10s %s\n", rec.Slug, rec.Name, rec.Status, rec.Date)
	}
	fmt.Printf("%d record(s)\n", resp.Total)
	return nil
}

func (a *app) addRecord(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("record-add", flag.ExitOnError)
	req := dto.CreateDataRecordRequest{}
	fs.StringVar(&req.Name, "name", "", "customer name")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	fs.StringVar(&req.Price, "price", "", "price")
	fs.StringVar(&req.Quantity, "quantity", "", "quantity")
	fs.StringVar(&req.Weight, "weight", "", "weight in kg")
	fs.StringVar(&req.Date, "date", time.Now().UTC().Format("2006-01-02"), "record date")
	fs.StringVar(&req.Notes, "notes", "", "notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Records are always created in the currently selected scope.
	req.OrganizationID = a.orgStore.SelectedID()

	resp, err := a.records.CreateDataRecord(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", resp.Slug)
	return nil
}

func (a *app) summary(ctx context.Context) error {
	resp, err := a.records.GetScopeSummary(ctx)
	if err != nil {
		return err
	}
	for _, bucket := range resp.Buckets {
		fmt.Printf("%-30s %d\n", bucket.Label, bucket.Count)
	}
	return nil
}

// seed populates an empty dataset with demo entities, the way a fresh install
// is exercised during development.
func (a *app) seed(ctx context.Context) error {
	orgs := []dto.CreateOrganizationRequest{
		{Name: "Toko Bersih", Phone: "081234567890", Province: "35", City: "3578", Address: "Jl. Pemuda 1", PostalCode: "60241"},
		{Name: "Warung Sebelah", Phone: "081298765432", Province: "31", City: "3173", Address: "Jl. Sabang 12", PostalCode: "10160"},
	}
	for _, req := range orgs {
		org, err := a.orgs.CreateOrganization(ctx, req)
		if err != nil {
			return err
		}
		for _, name := range []string{"Andi", "Budi"} {
			_, err := a.records.CreateDataRecord(ctx, dto.CreateDataRecordRequest{
				OrganizationID: org.ID,
				Name:           name,
				Phone:          "081200000000",
				Price:          "15000",
				Quantity:       "2",
				Weight:         "3.5",
				Date:           time.Now().UTC().Format("2006-01-02"),
				Notes:          "seeded",
			})
			if err != nil {
				return err
			}
		}
		fmt.Printf("seeded %s with 2 records\n", org.Slug)
	}
	return nil
}

func requireSlug(args []string, fn func(string) error) error {
	if len(args) == 0 {
		return fmt.Errorf("missing record code")
	}
	return fn(args[0])
}
