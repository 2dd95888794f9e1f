package car

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CarTrax/CarTrax/internal/common/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, _, _, _ := newTestService(t)
	log, err := logger.NewLogger("error", "text", "stdout", "")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	app := fiber.New()
	RegisterRoutes(app, NewHandler(svc, log))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var decoded map[string]interface{}
	if resp.StatusCode != fiber.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	resp.Body.Close()
	return resp, decoded
}

func TestCreateAndFetchOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp, created := doJSON(t, app, fiber.MethodPost, "/api/cars/", camryBody())
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("create: missing id in %v", created)
	}
	if created["spec"] == nil {
		t.Fatalf("create: expected blank spec in response")
	}

	resp, fetched := doJSON(t, app, fiber.MethodGet, "/api/cars/"+id, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get: status %d", resp.StatusCode)
	}
	if fetched["make"] != "Toyota" || fetched["model"] != "Camry" {
		t.Fatalf("get: unexpected body %v", fetched)
	}
}

func TestGetUnknownCarIs404(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/cars/"+uuid.NewString(), nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if body["error"] == nil {
		t.Fatalf("expected error body, got %v", body)
	}
}

func TestCreateMalformedBodyIs400(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/api/cars/", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestPatchAllowNullQueryFlag(t *testing.T) {
	app := newTestApp(t)

	_, created := doJSON(t, app, fiber.MethodPost, "/api/cars/", camryBody())
	id := created["id"].(string)

	// set a value, then clear it through the allowNull path
	patch := map[string]interface{}{"spec": map[string]interface{}{"batteryId": 7}}
	resp, body := doJSON(t, app, fiber.MethodPatch, "/api/cars/"+id, patch)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("patch: status %d", resp.StatusCode)
	}
	spec := body["spec"].(map[string]interface{})
	if spec["batteryId"] != float64(7) {
		t.Fatalf("expected batteryId 7, got %v", spec["batteryId"])
	}

	clearPatch := map[string]interface{}{"spec": map[string]interface{}{"batteryId": nil}}

	// without allowNull the null is skipped
	_, body = doJSON(t, app, fiber.MethodPatch, "/api/cars/"+id, clearPatch)
	spec = body["spec"].(map[string]interface{})
	if spec["batteryId"] != float64(7) {
		t.Fatalf("plain patch should not clear, got %v", spec["batteryId"])
	}

	// with allowNull the null is written
	_, body = doJSON(t, app, fiber.MethodPatch, "/api/cars/"+id+"?allowNull=true", clearPatch)
	spec = body["spec"].(map[string]interface{})
	if spec["batteryId"] != nil {
		t.Fatalf("allowNull patch should clear, got %v", spec["batteryId"])
	}
}

func TestDeleteCarOverHTTP(t *testing.T) {
	app := newTestApp(t)

	_, created := doJSON(t, app, fiber.MethodPost, "/api/cars/", camryBody())
	id := created["id"].(string)

	resp, _ := doJSON(t, app, fiber.MethodDelete, "/api/cars/"+id, nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, fiber.MethodDelete, "/api/cars/"+id, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("second delete: status %d", resp.StatusCode)
	}
}
