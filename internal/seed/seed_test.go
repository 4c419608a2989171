package seed

import (
	"fmt"
	"testing"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/provider"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const sampleFixture = `
vendors:
  - key: acme
    name: Acme Logistics
    reg_no: VEN-SEED-0001
    vendor_type: logistic_provider
    fleet_size: 4
    status: approved
products:
  - key: maize
    name: Maize
    quantity: 1000
missions:
  - key: north
    title: Northern relief
    type: emergency
    number_of_beneficiaries: 1200
    start_date: "2026-02-01"
    end_date: "2026-02-20"
    vendors: [acme]
    cargo:
      total_products_quantity: 300
      items:
        - product: maize
          quantity: 300
trucks:
  - vendor: acme
    vehicle_name: KBX-101
    capacity: "150.50"
drivers:
  - vendor: acme
    first_name: Amina
    last_name: Okello
    email: amina@acme.test
    phone_number: "+254700000001"
users:
  - email: dispatch@acme.test
    password: Dispatch123
    role: vendor
    vendor: acme
`

func setupSeedTest(t *testing.T) *provider.Container {
	t.Helper()
	dsn := fmt.Sprintf("file:seed_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return provider.NewContainerWithDB(&config.Config{}, db, nil)
}

func TestApplyFixtureIsIdempotent(t *testing.T) {
	c := setupSeedTest(t)
	fixture, err := Parse([]byte(sampleFixture))
	if err != nil {
		t.Fatalf("parse fixture failed: %v", err)
	}

	first, err := NewLoader(c).Apply(fixture)
	if err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if first.Created != 8 || first.Skipped != 0 {
		t.Fatalf("first apply want 8 created got %+v", first)
	}

	second, err := NewLoader(c).Apply(fixture)
	if err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	if second.Created != 0 || second.Skipped != 8 {
		t.Fatalf("second apply want 8 skipped got %+v", second)
	}

	trucks, total, err := c.FleetService.ListTrucks(repository.TruckListFilter{Page: 1, PageSize: 10})
	if err != nil || total != 1 {
		t.Fatalf("list trucks failed: total=%d err=%v", total, err)
	}
	if trucks[0].Capacity.String() != "150.50" {
		t.Fatalf("capacity want 150.50 got %s", trucks[0].Capacity.String())
	}
}

func TestApplyFixtureUnknownReference(t *testing.T) {
	c := setupSeedTest(t)
	fixture := &Fixture{Trucks: []TruckFixture{{Vendor: "ghost", VehicleName: "X", Capacity: "1"}}}
	if _, err := NewLoader(c).Apply(fixture); err == nil {
		t.Fatalf("unknown vendor reference should fail")
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("vendors: [")); err == nil {
		t.Fatalf("malformed yaml should fail")
	}
}
