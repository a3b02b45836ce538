// seed_catalog carga ítems y saldos de apertura desde un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed_catalog -branch ID -warehouse ID [-charset latin1] catalogo.csv
//
// Columnas: sku;nombre;unidad;minimo;reorden;maximo;cantidad;costo_unitario
// maximo, cantidad y costo_unitario pueden ir vacíos. Se acepta coma decimal.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

const seedUser = "seed_catalog"

type catalogRow struct {
	line     int
	item     dto.CreateItemRequest
	quantity decimal.Decimal
	unitCost *decimal.Decimal
}

func main() {
	branchID := flag.String("branch", "", "sucursal dueña de los ítems")
	warehouseID := flag.String("warehouse", "", "bodega para los saldos de apertura")
	charset := flag.String("charset", "utf-8", "codificación del archivo (utf-8 | latin1)")
	flag.Parse()
	if *branchID == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog -branch ID -warehouse ID [-charset latin1] catalogo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_catalog"})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	rows, err := parseCatalog(f, *charset)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	items := usecase.NewItemUseCase(repos.Items, nil)
	movements := inventory.NewRegisterMovementUseCase(
		postgres.NewTxRunner(pool), inventory.NewLedger(), repos.Items, repos.Warehouses,
		events.NewLogNotifier(log), log, cfg.Ledger.CommitTimeout,
	)

	var created, opened, skipped int
	for _, r := range rows {
		item, err := items.Create(ctx, *branchID, r.item)
		if errors.Is(err, domain.ErrDuplicate) {
			skipped++
			log.Warn().Int("line", r.line).Str("sku", r.item.SKU).Msg("SKU ya existe, se omite")
			continue
		}
		if err != nil {
			log.Error().Err(err).Int("line", r.line).Str("sku", r.item.SKU).Msg("crear ítem")
			continue
		}
		created++
		if *warehouseID == "" || !r.quantity.IsPositive() {
			continue
		}
		_, err = movements.RegisterMovement(ctx, *branchID, seedUser, dto.RegisterMovementRequest{
			ItemID:      item.ID,
			WarehouseID: *warehouseID,
			Type:        string(entity.MovementOpeningBalance),
			Quantity:    r.quantity,
			UnitCost:    r.unitCost,
			Notes:       "carga inicial " + time.Now().Format("2006-01-02"),
		})
		if err != nil {
			log.Error().Err(err).Int("line", r.line).Str("sku", r.item.SKU).Msg("saldo de apertura")
			continue
		}
		opened++
	}
	log.Info().Int("rows", len(rows)).Int("created", created).Int("opening_balances", opened).Int("skipped", skipped).Msg("carga terminada")
}

// parseCatalog lee el CSV separado por ';'. La primera fila es el encabezado.
func parseCatalog(r io.Reader, charset string) ([]catalogRow, error) {
	switch strings.ToLower(charset) {
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "windows-1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case "", "utf-8", "utf8":
	default:
		return nil, fmt.Errorf("codificación no soportada %q", charset)
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = 8
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	var rows []catalogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row, err := parseRow(line, rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(line int, rec []string) (catalogRow, error) {
	num := func(col int, required bool) (*decimal.Decimal, error) {
		s := strings.ReplaceAll(strings.TrimSpace(rec[col]), ",", ".")
		if s == "" {
			if required {
				return nil, fmt.Errorf("línea %d, columna %d: valor obligatorio", line, col+1)
			}
			return nil, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("línea %d, columna %d: número inválido %q", line, col+1, rec[col])
		}
		return &d, nil
	}

	row := catalogRow{line: line}
	row.item = dto.CreateItemRequest{
		SKU:           strings.TrimSpace(rec[0]),
		Name:          strings.TrimSpace(rec[1]),
		UnitOfMeasure: strings.ToUpper(strings.TrimSpace(rec[2])),
	}
	if row.item.SKU == "" || row.item.Name == "" {
		return row, fmt.Errorf("línea %d: sku y nombre son obligatorios", line)
	}
	minimum, err := num(3, true)
	if err != nil {
		return row, err
	}
	reorder, err := num(4, true)
	if err != nil {
		return row, err
	}
	row.item.MinStockLevel, row.item.ReorderPoint = *minimum, *reorder
	if row.item.MaxStockLevel, err = num(5, false); err != nil {
		return row, err
	}
	qty, err := num(6, false)
	if err != nil {
		return row, err
	}
	if qty != nil {
		row.quantity = *qty
	}
	if row.unitCost, err = num(7, false); err != nil {
		return row, err
	}
	return row, nil
}
