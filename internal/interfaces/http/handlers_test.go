package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-ledger/pkg/jwt"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor completo sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

const otherBranchID = "00000000-0000-0000-0000-000000000099"

func buildServer(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.Nop()
	store := memory.NewStore()
	repos := store.Repos()
	ledger := inventory.NewLedger()
	notifier := events.NewLogNotifier(log)
	committer := documents.NewCommitter(store, ledger, notifier, log, 5*time.Second)
	keys := documents.NewKeys(cache.NewMemoryIdempotencyStore(time.Hour), log)

	alerts := inventory.NewAlertUseCase(store, ledger, repos.Alerts, repos.Warehouses, notifier, log)
	counts := documents.NewCountUseCase(repos.Counts, committer, keys, invdomain.UncountedExclude)
	writeoffs := documents.NewWriteoffUseCase(repos.Writeoffs, committer, keys)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		WarehouseUC:      usecase.NewWarehouseUseCase(repos.Warehouses),
		ItemUC:           usecase.NewItemUseCase(repos.Items, alerts),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, ledger, repos.Items, repos.Warehouses, notifier, log, 5*time.Second),
		StockQuery:       inventory.NewStockQueryUseCase(repos.Positions, repos.Movements, repos.Items, repos.Warehouses),
		Alerts:           alerts,
		Rebuild:          inventory.NewRebuildUseCase(store, ledger, log),
		PurchaseOrders:   documents.NewPurchaseOrderUseCase(repos.PurchaseOrders, committer, keys),
		Counts:           counts,
		Writeoffs:        writeoffs,
		Reports:          documents.NewReportUseCase(counts, writeoffs, repos.Items, repos.Warehouses, pdf.NewMarotoPDFGenerator()),
		JWTSecret:        testJWTSecret,
	})
	return app
}

func bearer(t *testing.T, branchID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, branchID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

type result struct {
	status int
	header http.Header
	raw    []byte
}

func (r result) object(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.raw, &out), string(r.raw))
	return out
}

func (r result) array(t *testing.T) []any {
	t.Helper()
	var out []any
	require.NoError(t, json.Unmarshal(r.raw, &out), string(r.raw))
	return out
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any, headers ...string) result {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return result{status: resp.StatusCode, header: resp.Header, raw: raw}
}

// seed crea bodega e ítem y devuelve sus IDs.
func seed(t *testing.T, app *fiber.App) (warehouseID, itemID string) {
	t.Helper()
	admin := bearer(t, testBranchID, apphttp.RoleAdmin)
	r := call(t, app, http.MethodPost, "/api/warehouses", admin, map[string]any{"name": "Principal"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	warehouseID = r.object(t)["id"].(string)

	r = call(t, app, http.MethodPost, "/api/items", admin, map[string]any{
		"sku":             "HAR-001",
		"name":            "Harina",
		"unit_of_measure": "KG",
		"min_stock_level": "2",
		"reorder_point":   "4",
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	itemID = r.object(t)["id"].(string)
	return warehouseID, itemID
}

func opening(t *testing.T, app *fiber.App, warehouseID, itemID, qty string) {
	t.Helper()
	r := call(t, app, http.MethodPost, "/api/inventory/movements", bearer(t, testBranchID, apphttp.RoleBodeguero), map[string]any{
		"item_id":      itemID,
		"warehouse_id": warehouseID,
		"type":         "OPENING_BALANCE",
		"quantity":     qty,
		"unit_cost":    "1000",
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo y movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestHandlers_CrearBodegaRequiereAdmin(t *testing.T) {
	app := buildServer(t)
	r := call(t, app, http.MethodPost, "/api/warehouses", bearer(t, testBranchID, apphttp.RoleBodeguero), map[string]any{"name": "Norte"})
	assert.Equal(t, http.StatusForbidden, r.status)
}

func TestHandlers_BodegaInexistente_Retorna404(t *testing.T) {
	app := buildServer(t)
	r := call(t, app, http.MethodGet, "/api/warehouses/no-existe", bearer(t, testBranchID, apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "NOT_FOUND", r.object(t)["code"])
}

func TestHandlers_BodegaDeOtraSucursal_Retorna403(t *testing.T) {
	app := buildServer(t)
	warehouseID, _ := seed(t, app)
	r := call(t, app, http.MethodGet, "/api/warehouses/"+warehouseID, bearer(t, otherBranchID, apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusForbidden, r.status)
	assert.Equal(t, "FORBIDDEN", r.object(t)["code"])
}

func TestHandlers_MovimientoDeApertura_ActualizaPosicion(t *testing.T) {
	app := buildServer(t)
	warehouseID, itemID := seed(t, app)
	tok := bearer(t, testBranchID, apphttp.RoleBodeguero)

	r := call(t, app, http.MethodPost, "/api/inventory/movements", tok, map[string]any{
		"item_id":      itemID,
		"warehouse_id": warehouseID,
		"type":         "OPENING_BALANCE",
		"quantity":     "5",
		"unit_cost":    "1000",
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	movs := r.array(t)
	require.Len(t, movs, 1)
	assert.Equal(t, "5", movs[0].(map[string]any)["new_quantity"])

	r = call(t, app, http.MethodGet, "/api/inventory/positions/"+warehouseID+"/"+itemID, tok, nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.Equal(t, "5", r.object(t)["quantity"])
	assert.Equal(t, "1000", r.object(t)["average_cost"])

	r = call(t, app, http.MethodGet, "/api/inventory/movements?warehouse_id="+warehouseID+"&from=2000-01-01", tok, nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.Len(t, r.object(t)["items"], 1)
}

func TestHandlers_SalidaSinStock_Retorna400ConMarca(t *testing.T) {
	app := buildServer(t)
	warehouseID, itemID := seed(t, app)
	opening(t, app, warehouseID, itemID, "3")

	r := call(t, app, http.MethodPost, "/api/inventory/movements", bearer(t, testBranchID, apphttp.RoleBodeguero), map[string]any{
		"item_id":      itemID,
		"warehouse_id": warehouseID,
		"type":         "SALE_DEDUCTION",
		"quantity":     "10",
	})
	require.Equal(t, http.StatusBadRequest, r.status, string(r.raw))
	body := r.object(t)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Equal(t, true, body["details"].(map[string]any)["insufficient_stock"])
}

func TestHandlers_FechaInvalida_Retorna400(t *testing.T) {
	app := buildServer(t)
	r := call(t, app, http.MethodGet, "/api/inventory/movements?from=ayer", bearer(t, testBranchID, apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "from", r.object(t)["details"].(map[string]any)["field"])
}

func TestHandlers_ReconciliarSinBodega_Retorna400(t *testing.T) {
	app := buildServer(t)
	r := call(t, app, http.MethodGet, "/api/inventory/reconcile", bearer(t, testBranchID, apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, r.status)
}

func TestHandlers_ReconciliarBodegaSinDeriva(t *testing.T) {
	app := buildServer(t)
	warehouseID, itemID := seed(t, app)
	opening(t, app, warehouseID, itemID, "5")

	r := call(t, app, http.MethodGet, "/api/inventory/reconcile?warehouse_id="+warehouseID, bearer(t, testBranchID, apphttp.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	body := r.object(t)
	assert.Equal(t, float64(1), body["movements"])
	assert.Empty(t, body["drifts"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestHandlers_OrdenSinLineas_Retorna400(t *testing.T) {
	app := buildServer(t)
	warehouseID, _ := seed(t, app)
	r := call(t, app, http.MethodPost, "/api/purchase-orders", bearer(t, testBranchID, apphttp.RoleBodeguero), map[string]any{
		"warehouse_id": warehouseID,
		"supplier_id":  "sup-1",
		"lines":        []any{},
	})
	require.Equal(t, http.StatusBadRequest, r.status, string(r.raw))
	assert.Equal(t, "lines", r.object(t)["details"].(map[string]any)["field"])
}

func TestHandlers_OrdenIdempotente_DevuelveLaMisma(t *testing.T) {
	app := buildServer(t)
	warehouseID, itemID := seed(t, app)
	tok := bearer(t, testBranchID, apphttp.RoleBodeguero)
	body := map[string]any{
		"warehouse_id": warehouseID,
		"supplier_id":  "sup-1",
		"lines":        []any{map[string]any{"item_id": itemID, "ordered_qty": "10", "unit_cost": "500"}},
	}

	first := call(t, app, http.MethodPost, "/api/purchase-orders", tok, body, apphttp.HeaderIdempotencyKey, "po-key-1")
	require.Equal(t, http.StatusCreated, first.status, string(first.raw))
	second := call(t, app, http.MethodPost, "/api/purchase-orders", tok, body, apphttp.HeaderIdempotencyKey, "po-key-1")
	require.Equal(t, http.StatusCreated, second.status, string(second.raw))
	assert.Equal(t, first.object(t)["id"], second.object(t)["id"])

	list := call(t, app, http.MethodGet, "/api/purchase-orders", tok, nil)
	require.Equal(t, http.StatusOK, list.status)
	assert.Len(t, list.object(t)["items"], 1)
}

func TestHandlers_RecepcionDeOrden_FlujoCompleto(t *testing.T) {
	app := buildServer(t)
	warehouseID, itemID := seed(t, app)
	bodeguero := bearer(t, testBranchID, apphttp.RoleBodeguero)
	supervisor := bearer(t, testBranchID, apphttp.RoleSupervisor)

	r := call(t, app, http.MethodPost, "/api/purchase-orders", bodeguero, map[string]any{
		"warehouse_id": warehouseID,
		"supplier_id":  "sup-1",
		"lines":        []any{map[string]any{"item_id": itemID, "ordered_qty": "10", "unit_cost": "500"}},
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	id := r.object(t)["id"].(string)

	r = call(t, app, http.MethodPost, "/api/purchase-orders/"+id+"/receive", supervisor, nil)
	require.Equal(t, http.StatusConflict, r.status, "en borrador no se recibe")
	assert.Equal(t, "INVALID_TRANSITION", r.object(t)["code"])

	r = call(t, app, http.MethodPost, "/api/purchase-orders/"+id+"/send", bodeguero, nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))

	r = call(t, app, http.MethodPost, "/api/purchase-orders/"+id+"/receive", bodeguero, nil)
	assert.Equal(t, http.StatusForbidden, r.status, "bodeguero no recibe")

	r = call(t, app, http.MethodPost, "/api/purchase-orders/"+id+"/receive", supervisor, nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.Equal(t, "received", r.object(t)["status"])

	r = call(t, app, http.MethodGet, "/api/inventory/positions/"+warehouseID+"/"+itemID, bodeguero, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "10", r.object(t)["quantity"])
}

func TestHandlers_CancelarSinMotivo_Retorna400(t *testing.T) {
	app := buildServer(t)
	r := call(t, app, http.MethodPost, "/api/purchase-orders/cualquiera/cancel", bearer(t, testBranchID, apphttp.RoleSupervisor), map[string]any{})
	require.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "reason", r.object(t)["details"].(map[string]any)["field"])
}

func TestHandlers_BajaSinStock_Retorna409ConLineas(t *testing.T) {
	app := buildServer(t)
	warehouseID, itemID := seed(t, app)
	opening(t, app, warehouseID, itemID, "5")
	bodeguero := bearer(t, testBranchID, apphttp.RoleBodeguero)

	r := call(t, app, http.MethodPost, "/api/writeoffs", bodeguero, map[string]any{
		"warehouse_id": warehouseID,
		"reason":       "DAMAGED",
		"lines":        []any{map[string]any{"item_id": itemID, "quantity": "10"}},
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	id := r.object(t)["id"].(string)

	r = call(t, app, http.MethodPost, "/api/writeoffs/"+id+"/submit", bodeguero, nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))

	r = call(t, app, http.MethodPost, "/api/writeoffs/"+id+"/approve", bearer(t, testBranchID, apphttp.RoleSupervisor), nil)
	require.Equal(t, http.StatusConflict, r.status, string(r.raw))
	body := r.object(t)
	assert.Equal(t, "COMMIT_FAILED", body["code"])
	assert.Len(t, body["details"], 1)

	r = call(t, app, http.MethodGet, "/api/writeoffs/"+id, bodeguero, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "submitted", r.object(t)["status"], "el rechazo del commit no cambia el estado")

	r = call(t, app, http.MethodGet, "/api/inventory/positions/"+warehouseID+"/"+itemID, bodeguero, nil)
	assert.Equal(t, "5", r.object(t)["quantity"])
}

func TestHandlers_ReporteDeConteo_DevuelvePDF(t *testing.T) {
	app := buildServer(t)
	warehouseID, itemID := seed(t, app)
	opening(t, app, warehouseID, itemID, "5")
	tok := bearer(t, testBranchID, apphttp.RoleBodeguero)

	r := call(t, app, http.MethodPost, "/api/counts", tok, map[string]any{
		"warehouse_id": warehouseID,
		"item_ids":     []string{itemID},
		"start":        true,
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	id := r.object(t)["id"].(string)

	r = call(t, app, http.MethodPost, "/api/counts/"+id+"/lines", tok, map[string]any{"item_id": itemID, "counted_quantity": "4"})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))

	r = call(t, app, http.MethodGet, "/api/counts/"+id+"/report", tok, nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.Equal(t, "application/pdf", r.header.Get("Content-Type"))
	assert.Contains(t, r.header.Get("Content-Disposition"), ".pdf")
	assert.True(t, strings.HasPrefix(string(r.raw), "%PDF"))
}
