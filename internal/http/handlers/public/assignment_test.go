package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/provider"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type vendorHandlerEnv struct {
	container *provider.Container
	engine    *gin.Engine
	vendorID  uint
	mission   *models.Mission
	truck     *models.Truck
	item      *models.CargoItem
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupVendorHandlerTest(t *testing.T) *vendorHandlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:public_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := &config.Config{
		UserJWT:    config.JWTConfig{SecretKey: "handler-secret", ExpireHours: 1},
		Allocation: config.AllocationConfig{EnforceCapacity: true},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8},
		},
	}
	container := provider.NewContainerWithDB(cfg, db, nil)

	vendor, err := container.VendorService.Create(service.CreateVendorInput{
		Name:       "Acme Logistics",
		VendorType: constants.VendorTypeLogisticProvider,
		Status:     constants.VendorStatusApproved,
	})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	user, err := container.UserService.Create(service.CreateUserInput{
		Email:    "dispatch@acme.test",
		Password: "Passw0rd!",
		Role:     constants.RoleVendor,
		VendorID: vendor.UniqueID,
	})
	if err != nil {
		t.Fatalf("create vendor user failed: %v", err)
	}
	mission, err := container.MissionService.CreateMission(service.CreateMissionInput{
		Title:     "Maize delivery",
		Type:      constants.MissionTypeRegular,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create mission failed: %v", err)
	}
	if _, err := container.MissionService.ContractVendor(vendor.UniqueID, mission.UniqueID); err != nil {
		t.Fatalf("contract vendor failed: %v", err)
	}
	product, err := container.FleetService.CreateProduct("Maize", 500)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	cargo, err := container.MissionService.CreateCargo(service.CreateCargoInput{
		MissionID:             mission.UniqueID,
		TotalProductsQuantity: 50,
		Items:                 []service.CargoItemInput{{ProductID: product.UniqueID, Quantity: 50}},
	})
	if err != nil {
		t.Fatalf("create cargo failed: %v", err)
	}
	truck, err := container.FleetService.CreateTruck(service.CreateTruckInput{
		VehicleName: "T-1",
		VendorID:    vendor.UniqueID,
		Capacity:    models.NewCapacityFromFloat(100),
	})
	if err != nil {
		t.Fatalf("create truck failed: %v", err)
	}

	h := New(container)
	r := gin.New()
	vendorGroup := r.Group("/vendor")
	vendorGroup.Use(func(c *gin.Context) {
		c.Set("user_id", user.ID)
		c.Next()
	})
	vendorGroup.POST("/assignments", h.CreateAssignment)
	vendorGroup.PUT("/assignments/:id/cargo", h.ReplaceAssignmentCargo)
	vendorGroup.GET("/assignments/:id/utilization", h.GetAssignmentUtilization)
	vendorGroup.GET("/missions/:id/cargo", h.GetMissionCargo)

	return &vendorHandlerEnv{
		container: container,
		engine:    r,
		vendorID:  vendor.ID,
		mission:   mission,
		truck:     truck,
		item:      &cargo.Items[0],
	}
}

func (env *vendorHandlerEnv) do(t *testing.T, method, path string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en-US")
	env.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestCreateAssignmentThenUtilization(t *testing.T) {
	env := setupVendorHandlerTest(t)

	resp := env.do(t, http.MethodPost, "/vendor/assignments", gin.H{
		"mission_id": env.mission.UniqueID,
		"truck_id":   env.truck.UniqueID,
		"start_date": "2026-01-02",
		"cargo_items": []gin.H{
			{"cargo_item_id": env.item.UniqueID, "quantity": 30},
		},
	})
	if resp.StatusCode != 0 {
		t.Fatalf("create assignment want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	var view service.AssignmentView
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("decode assignment view failed: %v", err)
	}
	if view.AssignmentID == "" || len(view.CargoItems) != 1 {
		t.Fatalf("unexpected assignment view: %+v", view)
	}

	util := env.do(t, http.MethodGet, "/vendor/assignments/"+view.AssignmentID+"/utilization", nil)
	var utilization service.Utilization
	if err := json.Unmarshal(util.Data, &utilization); err != nil {
		t.Fatalf("decode utilization failed: %v", err)
	}
	if utilization.Assigned != 30 || utilization.Percentage != 30 {
		t.Fatalf("utilization want 30/30%% got %+v", utilization)
	}

	cargo := env.do(t, http.MethodGet, "/vendor/missions/"+env.mission.UniqueID+"/cargo", nil)
	var cargoView service.MissionCargoView
	if err := json.Unmarshal(cargo.Data, &cargoView); err != nil {
		t.Fatalf("decode cargo view failed: %v", err)
	}
	if len(cargoView.Items) != 1 || cargoView.Items[0].Remaining != 20 {
		t.Fatalf("remaining want 20 got %+v", cargoView.Items)
	}
}

func TestCreateAssignmentOverAllocationReturnsEveryMessage(t *testing.T) {
	env := setupVendorHandlerTest(t)

	resp := env.do(t, http.MethodPost, "/vendor/assignments", gin.H{
		"mission_id": env.mission.UniqueID,
		"truck_id":   env.truck.UniqueID,
		"cargo_items": []gin.H{
			{"cargo_item_id": env.item.UniqueID, "quantity": 60},
		},
	})
	if resp.StatusCode != 422 {
		t.Fatalf("over allocation want 422 got %d", resp.StatusCode)
	}
	var data struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode error data failed: %v", err)
	}
	if len(data.Errors) == 0 {
		t.Fatalf("expected per-item messages, got none")
	}
	total, err := env.container.AssignmentRepo.SumAllocatedForItem(env.item.ID, 0)
	if err != nil {
		t.Fatalf("sum allocations failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("failed create must not persist allocations, got %d", total)
	}
}

func TestCreateAssignmentUnknownTruckNotFound(t *testing.T) {
	env := setupVendorHandlerTest(t)

	resp := env.do(t, http.MethodPost, "/vendor/assignments", gin.H{
		"mission_id": env.mission.UniqueID,
		"truck_id":   "00000000-0000-0000-0000-000000000000",
	})
	if resp.StatusCode != 404 {
		t.Fatalf("unknown truck want 404 got %d", resp.StatusCode)
	}
}

func TestCreateAssignmentRejectsBadDate(t *testing.T) {
	env := setupVendorHandlerTest(t)

	resp := env.do(t, http.MethodPost, "/vendor/assignments", gin.H{
		"mission_id": env.mission.UniqueID,
		"truck_id":   env.truck.UniqueID,
		"start_date": "02/01/2026",
	})
	if resp.StatusCode != 400 {
		t.Fatalf("bad date want 400 got %d", resp.StatusCode)
	}
}
