package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// CSVSource serves a catalog loaded once from a CSV export. Columns are
// matched by header name: id, title, price, description, category, image,
// rating.rate, rating.count.
type CSVSource struct {
	products   []domain.Product
	categories []string
}

func OpenCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()
	return LoadCSV(f)
}

func LoadCSV(r io.Reader) (*CSVSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may have trailing commas

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	src := &CSVSource{}
	seen := make(map[int]struct{})
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if p == nil {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("row %d: duplicate product id %d", line, p.ID)
		}
		seen[p.ID] = struct{}{}

		src.products = append(src.products, *p)
		if p.Category != "" && !slices.Contains(src.categories, p.Category) {
			src.categories = append(src.categories, p.Category)
		}
	}
	return src, nil
}

func (s *CSVSource) ListProducts(context.Context) ([]domain.Product, error) {
	return slices.Clone(s.products), nil
}

func (s *CSVSource) ListCategories(context.Context) ([]string, error) {
	return slices.Clone(s.categories), nil
}

func (s *CSVSource) GetProduct(_ context.Context, id int) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

// parseRow returns nil for blank rows.
func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	idStr := pick(record, index, "id")
	if idStr == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", idStr)
	}
	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil {
		return nil, fmt.Errorf("product %d: invalid price: %w", id, err)
	}

	p := &domain.Product{
		ID:          id,
		Title:       pick(record, index, "title"),
		Price:       price,
		Description: pick(record, index, "description"),
		Category:    pick(record, index, "category"),
		Image:       pick(record, index, "image"),
	}
	if v := pick(record, index, "rating.rate"); v != "" {
		if p.Rating.Rate, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("product %d: invalid rating %q", id, v)
		}
	}
	if v := pick(record, index, "rating.count"); v != "" {
		if p.Rating.Count, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("product %d: invalid rating count %q", id, v)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
