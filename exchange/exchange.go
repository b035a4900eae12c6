// Package exchange moves clients, products and orders between the store and
// CSV, JSON or YAML files. Exports carry ids; imports drop them and let the
// store assign fresh ones.
package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kendall-kelly/shopstore/logging"
	"github.com/kendall-kelly/shopstore/models"
	"github.com/kendall-kelly/shopstore/store"
)

// ImportReport summarizes one import run
type ImportReport struct {
	BatchID  string     `json:"batch_id"`
	Kind     store.Kind `json:"kind"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
}

// Exchanger imports and exports records of one store
type Exchanger struct {
	store *store.Store
}

// New creates an Exchanger over s
func New(s *store.Store) *Exchanger {
	return &Exchanger{store: s}
}

// Export writes every record of kind to path, choosing the encoding from the
// file extension. It returns the number of records written.
func (e *Exchanger) Export(ctx context.Context, kind store.Kind, path string) (int, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	n, err := e.encode(ctx, kind, format, &buf)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.WithFields(ctx, "kind", kind, "format", format).Info("export finished", "file", path, "records", n)
	return n, nil
}

func (e *Exchanger) encode(ctx context.Context, kind store.Kind, format Format, w io.Writer) (int, error) {
	switch kind {
	case store.KindClients:
		clients, err := e.store.Clients.All(ctx)
		if err != nil {
			return 0, err
		}
		if format == FormatCSV {
			return len(clients), clientsToCSV(w, clients)
		}
		return len(clients), encodeStructured(w, format, clients)

	case store.KindProducts:
		products, err := e.store.Products.All(ctx)
		if err != nil {
			return 0, err
		}
		if format == FormatCSV {
			return len(products), productsToCSV(w, products)
		}
		return len(products), encodeStructured(w, format, products)

	case store.KindOrders:
		orders, err := e.store.Orders.All(ctx)
		if err != nil {
			return 0, err
		}
		records := make([]orderRecord, len(orders))
		for i, o := range orders {
			records[i] = newOrderRecord(o)
		}
		if format == FormatCSV {
			return len(records), ordersToCSV(w, records)
		}
		return len(records), encodeStructured(w, format, records)

	default:
		return 0, fmt.Errorf("unknown kind %q", kind)
	}
}

// Import reads records of kind from path and adds them to the store in one
// transaction: either every row is stored or none is. Orders whose client no
// longer exists are skipped, as are items whose product is gone. Imported
// orders do not consume stock.
func (e *Exchanger) Import(ctx context.Context, kind store.Kind, path string) (ImportReport, error) {
	report := ImportReport{BatchID: uuid.New().String(), Kind: kind}
	ctx = logging.WithOperation(ctx, "import")
	log := logging.WithFields(ctx, "batch_id", report.BatchID, "kind", kind)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return report, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	format, err := DetectFormat(path)
	if err != nil {
		return report, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch kind {
	case store.KindClients:
		err = e.importClients(ctx, format, data, &report)
	case store.KindProducts:
		err = e.importProducts(ctx, format, data, &report)
	case store.KindOrders:
		err = e.importOrders(ctx, format, data, &report)
	default:
		err = fmt.Errorf("unknown kind %q", kind)
	}
	if err != nil {
		log.Warn("import rolled back", "file", path, "error", err)
		report.Imported, report.Skipped = 0, 0
		return report, err
	}

	log.Info("import finished", "file", path, "imported", report.Imported, "skipped", report.Skipped)
	return report, nil
}

func (e *Exchanger) importClients(ctx context.Context, format Format, data []byte, report *ImportReport) error {
	var clients []models.Client
	var err error
	if format == FormatCSV {
		clients, err = clientsFromCSV(bytes.NewReader(data))
	} else {
		err = decodeStructured(data, format, &clients)
	}
	if err != nil {
		return err
	}

	return e.store.Transaction(ctx, func(tx *store.Store) error {
		for i := range clients {
			clients[i].ID = 0
			if _, err := tx.Clients.Add(ctx, &clients[i]); err != nil {
				return rowError(i+1, err)
			}
			report.Imported++
		}
		return nil
	})
}

func (e *Exchanger) importProducts(ctx context.Context, format Format, data []byte, report *ImportReport) error {
	var products []models.Product
	var err error
	if format == FormatCSV {
		products, err = productsFromCSV(bytes.NewReader(data))
	} else {
		err = decodeStructured(data, format, &products)
	}
	if err != nil {
		return err
	}

	return e.store.Transaction(ctx, func(tx *store.Store) error {
		for i := range products {
			products[i].ID = 0
			if _, err := tx.Products.Add(ctx, &products[i]); err != nil {
				return rowError(i+1, err)
			}
			report.Imported++
		}
		return nil
	})
}

func (e *Exchanger) importOrders(ctx context.Context, format Format, data []byte, report *ImportReport) error {
	var records []orderRecord
	var err error
	if format == FormatCSV {
		records, err = ordersFromCSV(bytes.NewReader(data))
	} else {
		err = decodeStructured(data, format, &records)
	}
	if err != nil {
		return err
	}

	return e.store.Transaction(ctx, func(tx *store.Store) error {
		for i, rec := range records {
			order, ok, err := resolveOrder(ctx, tx, rec)
			if err != nil {
				return rowError(i+1, err)
			}
			if !ok {
				report.Skipped++
				continue
			}
			if _, err := tx.Orders.Add(ctx, &order); err != nil {
				return rowError(i+1, err)
			}
			report.Imported++
		}
		return nil
	})
}

// resolveOrder turns a record into an order whose references all exist. It
// reports false when the client is gone. Items for missing products are
// dropped and repeated products are merged.
func resolveOrder(ctx context.Context, tx *store.Store, rec orderRecord) (models.Order, bool, error) {
	client, err := tx.Clients.Get(ctx, rec.ClientID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, false, nil
	}
	if err != nil {
		return models.Order{}, false, err
	}

	order := models.Order{ClientID: client.ID, Discount: rec.Discount, Client: &client}
	if rec.Date != "" {
		if order.Date, err = models.ParseDate(rec.Date); err != nil {
			return models.Order{}, false, err
		}
	}

	index := make(map[uint]int, len(rec.Items))
	for _, it := range rec.Items {
		product, err := tx.Products.Get(ctx, it.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return models.Order{}, false, err
		}
		if pos, seen := index[product.ID]; seen {
			order.Items[pos].Quantity += it.Quantity
			continue
		}
		item := models.NewOrderItem(product, it.Quantity)
		item.UnitPrice = it.UnitPrice
		index[product.ID] = len(order.Items)
		order.Items = append(order.Items, item)
	}
	return order, true, nil
}

func encodeStructured(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fileError("UNSUPPORTED_FORMAT", "no structured encoder for %s", format)
	}
}

func decodeStructured(data []byte, format Format, v any) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, v)
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	default:
		return fileError("UNSUPPORTED_FORMAT", "no structured decoder for %s", format)
	}
	if err != nil {
		return fileError("INVALID_"+strings.ToUpper(string(format)), "decode %s: %v", format, err)
	}
	return nil
}
