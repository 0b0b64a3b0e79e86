package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logistica-api/internal/application/auth"
	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/application/inventory"
	"github.com/jhoicas/logistica-api/internal/application/reporting"
	"github.com/jhoicas/logistica-api/internal/application/usecase"
	"github.com/jhoicas/logistica-api/internal/infrastructure/memory"
	"github.com/jhoicas/logistica-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/logistica-api/internal/interfaces/http"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testPassword  = "bodega-1234"
)

func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	productUC := usecase.NewProductUseCase(store.Products(), store.Pending())
	engine := inventory.NewStockEngine(store, productUC, inventory.NewLedgerClock(time.UTC), nil, nil)
	authUC, err := auth.NewAuthUseCase("", testPassword, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: "logistica-test"})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
	app.Use(apphttp.RequestTimeout(5 * time.Second))
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:    productUC,
		RoutineUC:    usecase.NewRoutineUseCase(store.Routines()),
		AttendanceUC: usecase.NewAttendanceUseCase(store.Attendance(), time.UTC),
		Engine:       engine,
		PendingUC:    inventory.NewPendingListUseCase(store.Pending(), productUC, engine, nil, nil),
		ReportUC:     reporting.NewReportUseCase(store.Products(), store.Movements(), time.UTC, pdf.NewDailyReportGenerator("Bodega")),
		AuthUC:       authUC,
		JWTSecret:    testJWTSecret,
		AppName:      "logistica-test",
		Backend:      "memory",
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decode(t, resp, &e)
	return e.Code
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/api/auth/login", dto.LoginRequest{Password: testPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealth(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out apphttp.HealthResponse
	decode(t, resp, &out)
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "memory", out.Backend)
}

func TestStock_InboundScanThenRejectedOutbound(t *testing.T) {
	app := buildTestApp(t)

	resp := do(t, app, http.MethodPost, "/api/stock/inbound", dto.StockOperationRequest{Barcode: "8801234", Name: "A상품", Quantity: 10}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var in dto.MutationResponse
	decode(t, resp, &in)
	assert.Equal(t, 10, in.Product.Stock)
	assert.Equal(t, "IN", in.Movement.Type)
	assert.Equal(t, "A상품", in.Movement.ProductName)

	resp = do(t, app, http.MethodPost, "/api/stock/outbound", dto.StockOperationRequest{Barcode: "8801234", Quantity: 11}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))

	resp = do(t, app, http.MethodGet, "/api/products/"+in.Product.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p dto.ProductResponse
	decode(t, resp, &p)
	assert.Equal(t, 10, p.Stock)

	resp = do(t, app, http.MethodGet, "/api/movements?product_id="+in.Product.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movs []dto.MovementResponse
	decode(t, resp, &movs)
	assert.Len(t, movs, 1)
}

func TestStock_ErrorsMapToStatus(t *testing.T) {
	app := buildTestApp(t)

	resp := do(t, app, http.MethodPost, "/api/stock/outbound", dto.StockOperationRequest{Barcode: "000", Quantity: 1}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_BARCODE", errorCode(t, resp))

	resp = do(t, app, http.MethodPost, "/api/stock/inbound", dto.StockOperationRequest{Barcode: "111", Quantity: 0}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))

	resp = do(t, app, http.MethodPost, "/api/movements", map[string]any{"type": "TRANSFER", "barcode": "111", "quantity": 1}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/stock/outgoing", dto.StockOperationRequest{ProductID: "no-existe", Quantity: 1}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))

	resp = do(t, app, http.MethodGet, "/api/movements/no-existe", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStock_QuantityAboveLimitIsValidationError(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/stock/inbound", dto.StockOperationRequest{Barcode: "555", Quantity: 10}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, path := range []string{"/api/stock/inbound", "/api/stock/outbound", "/api/stock/packing"} {
		resp = do(t, app, http.MethodPost, path, dto.StockOperationRequest{Barcode: "555", Quantity: math.MaxInt}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "VALIDATION", errorCode(t, resp), path)
	}

	resp = do(t, app, http.MethodPost, "/api/pending/add", dto.AddPendingRequest{Barcode: "555", Delta: math.MaxInt}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = do(t, app, http.MethodPost, "/api/pending/add", dto.AddPendingRequest{Barcode: "555", Delta: 1_000_001}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var products dto.ProductListResponse
	resp = do(t, app, http.MethodGet, "/api/products?q=555", nil, "")
	decode(t, resp, &products)
	require.Len(t, products.Items, 1)
	assert.Equal(t, 10, products.Items[0].Stock)
}

func TestMovements_ListFlagsTruncation(t *testing.T) {
	app := buildTestApp(t)
	for i := 0; i < 3; i++ {
		resp := do(t, app, http.MethodPost, "/api/stock/inbound", dto.StockOperationRequest{Barcode: "321", Quantity: 1}, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := do(t, app, http.MethodGet, "/api/movements?limit=2", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get(apphttp.HeaderResultTruncated))
	assert.Equal(t, "2", resp.Header.Get(apphttp.HeaderResultLimit))
	var list []dto.MovementResponse
	decode(t, resp, &list)
	assert.Len(t, list, 2)

	resp = do(t, app, http.MethodGet, "/api/movements", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(apphttp.HeaderResultTruncated))
	assert.Equal(t, "1000", resp.Header.Get(apphttp.HeaderResultLimit))
}

func TestStock_PackingAndOutgoing(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/stock/packing", dto.StockOperationRequest{Barcode: "222", Quantity: 3}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "packing no crea productos")

	resp = do(t, app, http.MethodPost, "/api/stock/inbound", dto.StockOperationRequest{Barcode: "222", Quantity: 1}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/movements", map[string]any{"type": "PACKING", "barcode": "222", "quantity": 3}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var packed dto.MutationResponse
	decode(t, resp, &packed)
	assert.Equal(t, 3, packed.Product.GrossPackingQuantity)
	assert.Equal(t, 1, packed.Product.Stock)

	resp = do(t, app, http.MethodPost, "/api/stock/outgoing", dto.StockOperationRequest{Barcode: "222", Quantity: 4}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_GROSS_PACKING", errorCode(t, resp))
}

func TestProducts_AdminGate(t *testing.T) {
	app := buildTestApp(t)
	create := dto.CreateProductRequest{Barcode: "555", Name: "C상품", Stock: 5, MinStock: 10}

	resp := do(t, app, http.MethodPost, "/api/products", create, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/auth/login", dto.LoginRequest{Password: "otra"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, app)
	resp = do(t, app, http.MethodPost, "/api/products", create, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ProductResponse
	decode(t, resp, &p)
	assert.True(t, p.LowStock)

	resp = do(t, app, http.MethodPost, "/api/products", create, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_BARCODE", errorCode(t, resp))

	resp = do(t, app, http.MethodGet, "/api/products?low_stock=true", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ProductListResponse
	decode(t, resp, &list)
	assert.Equal(t, 1, list.Total)

	resp = do(t, app, http.MethodGet, "/api/products/barcode/555", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	name := "C상품 v2"
	resp = do(t, app, http.MethodPut, "/api/products/"+p.ID, dto.UpdateProductRequest{Name: &name}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/api/products/"+p.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, app, http.MethodGet, "/api/products/"+p.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPending_ScanAndProcessShipment(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/stock/inbound", dto.StockOperationRequest{Barcode: "777", Quantity: 5}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/pending/add", dto.AddPendingRequest{Barcode: "777"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, app, http.MethodPost, "/api/pending/add", dto.AddPendingRequest{Barcode: "777", Delta: 2}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var item dto.PendingItemResponse
	decode(t, resp, &item)
	assert.Equal(t, 3, item.Quantity)

	resp = do(t, app, http.MethodPost, "/api/pending/add", dto.AddPendingRequest{Barcode: "nada"}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/pending/process-shipment", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ship dto.ShipmentResponse
	decode(t, resp, &ship)
	require.Len(t, ship.Processed, 1)
	assert.Equal(t, 2, ship.Processed[0].Product.Stock)
	assert.Empty(t, ship.Remaining)

	resp = do(t, app, http.MethodGet, "/api/pending", nil, "")
	var list []dto.PendingItemResponse
	decode(t, resp, &list)
	assert.Empty(t, list)
}

func TestPending_ShipmentFailureKeepsRemaining(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/stock/inbound", dto.StockOperationRequest{Barcode: "888", Quantity: 1}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(t, app, http.MethodPost, "/api/pending/add", dto.AddPendingRequest{Barcode: "888", Delta: 2}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/pending/process-shipment", nil, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var out dto.ShipmentFailureResponse
	decode(t, resp, &out)
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Empty(t, out.Result.Processed)
	require.Len(t, out.Result.Remaining, 1)
	assert.Equal(t, 2, out.Result.Remaining[0].Quantity)
}

func TestPending_AdjustToZeroRemoves(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/stock/inbound", dto.StockOperationRequest{Barcode: "999", Quantity: 1}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var in dto.MutationResponse
	decode(t, resp, &in)
	resp = do(t, app, http.MethodPost, "/api/pending/add", dto.AddPendingRequest{Barcode: "999"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	zero := 0
	resp = do(t, app, http.MethodPost, "/api/pending/adjust-quantity", dto.AdjustPendingRequest{ProductID: in.Product.ID, Quantity: &zero}, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/api/pending/"+in.Product.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReports_Daily(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/stock/inbound", dto.StockOperationRequest{Barcode: "123", Quantity: 4}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/reports/daily", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.DailySummaryResponse
	decode(t, resp, &summary)
	assert.Equal(t, 1, summary.Totals["IN"].Count)
	assert.Equal(t, 4, summary.Totals["IN"].Quantity)

	resp = do(t, app, http.MethodGet, "/api/reports/daily.pdf", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = do(t, app, http.MethodGet, "/api/reports/daily?date=ayer", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoutinesAndAttendance(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/routines", dto.CreateRoutineRequest{Task: "창고 청소"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, app)
	resp = do(t, app, http.MethodPost, "/api/routines", dto.CreateRoutineRequest{Task: "창고 청소"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var r dto.RoutineResponse
	decode(t, resp, &r)

	done := true
	resp = do(t, app, http.MethodPut, "/api/routines/"+r.ID, dto.UpdateRoutineRequest{Completed: &done}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &r)
	assert.True(t, r.Completed)

	resp = do(t, app, http.MethodPost, "/api/routines/reset", nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/attendance", dto.CreateAttendanceRequest{Employee: "Kim", Type: "CLOCK_IN"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var a dto.AttendanceResponse
	decode(t, resp, &a)
	assert.NotEmpty(t, a.Date)

	resp = do(t, app, http.MethodPost, "/api/attendance", dto.CreateAttendanceRequest{Employee: "Kim", Type: "LUNCH"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/api/attendance/"+a.ID, nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = do(t, app, http.MethodDelete, "/api/attendance/"+a.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAdminMiddleware_RejectsMalformedHeader(t *testing.T) {
	app := buildTestApp(t)
	req := httptest.NewRequest(http.MethodDelete, "/api/products/x", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}
