// Package inventory loads replacement-vehicle candidates from warehouse CSV
// exports.
package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kavak/tradeup/internal/domain"
)

// Loader parses warehouse CSV exports into inventory items. Malformed rows
// are skipped with a warning rather than failing the whole file.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a CSV inventory loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log.With().Str("component", "inventory_loader").Logger()}
}

// LoadFile reads an inventory CSV from disk.
func (l *Loader) LoadFile(path string) ([]domain.InventoryItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

// Load parses inventory CSV from a reader. The first row is a header; column
// order is resolved by name so warehouse exports can reorder or add columns.
// Required columns: car_id, model, sales_price.
func (l *Loader) Load(r io.Reader) ([]domain.InventoryItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"car_id", "model", "sales_price"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("inventory file missing required column %q", required)
		}
	}

	var items []domain.InventoryItem
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			l.log.Warn().Err(err).Int("line", line).Msg("Skipping malformed inventory row")
			continue
		}

		item, err := l.parseRow(record, cols)
		if err != nil {
			l.log.Warn().Err(err).Int("line", line).Msg("Skipping invalid inventory row")
			continue
		}
		items = append(items, item)
	}

	l.log.Info().Int("items", len(items)).Msg("Inventory loaded")
	return items, nil
}

func (l *Loader) parseRow(record []string, cols map[string]int) (domain.InventoryItem, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	carID := field("car_id")
	if carID == "" {
		return domain.InventoryItem{}, fmt.Errorf("empty car_id")
	}

	price, err := strconv.ParseFloat(field("sales_price"), 64)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("invalid sales_price: %w", err)
	}
	if price <= 0 {
		return domain.InventoryItem{}, fmt.Errorf("non-positive sales_price %.2f", price)
	}

	item := domain.InventoryItem{
		CarID:      carID,
		Model:      field("model"),
		SalesPrice: price,
		Region:     field("region"),
		Color:      field("color"),
		Promotion:  field("promotion"),
	}

	if km := field("kilometers"); km != "" {
		n, err := strconv.Atoi(km)
		if err != nil {
			return domain.InventoryItem{}, fmt.Errorf("invalid kilometers: %w", err)
		}
		item.Kilometers = n
	}
	return item, nil
}
