package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/panelql/internal/domain"
	"github.com/rpattn/panelql/internal/query"
	"github.com/rpattn/panelql/internal/repository"
)

// Format selects the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves the requested format, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// Service writes a filtered listing to a flat file. It reuses the same
// compile pipeline as listings, with the row window forced off so an export
// always covers every matching row.
type Service struct {
	repo    repository.ResourceRepository
	dialect domain.Dialect
}

// NewService creates an export service executing through the repository.
func NewService(repo repository.ResourceRepository, dialect domain.Dialect) *Service {
	return &Service{repo: repo, dialect: dialect}
}

// Export compiles the params against the resource, materializes all matching
// rows, and writes them to w in the requested format.
func (s *Service) Export(ctx context.Context, resource domain.Resource, params domain.ListParams, format Format, w io.Writer) error {
	params.Page = 0
	params.Per = 0
	params.Limit = 0

	scope, err := query.NewAssembler(resource, s.dialect).Scope(params)
	if err != nil {
		return fmt.Errorf("compile export scope: %w", err)
	}

	rows, err := s.repo.List(ctx, scope)
	if err != nil {
		return fmt.Errorf("materialize export rows: %w", err)
	}

	headers := exportColumns(resource)
	switch format {
	case FormatXLSX:
		return writeXLSX(w, headers, rows)
	default:
		return writeCSV(w, headers, rows)
	}
}

// exportColumns derives the column order from the resource's field
// declarations, primary key first.
func exportColumns(resource domain.Resource) []string {
	pk := resource.PrimaryKey
	if pk == "" {
		pk = "id"
	}

	columns := []string{pk}
	seen := map[string]bool{pk: true}
	for _, field := range resource.Fields {
		column := field.Column
		if idx := strings.LastIndex(column, "."); idx >= 0 {
			column = column[idx+1:]
		}
		if column == "" || seen[column] {
			continue
		}
		seen[column] = true
		columns = append(columns, column)
	}
	return columns
}

func writeCSV(w io.Writer, headers []string, rows []repository.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(headers))
	for _, row := range rows {
		for i, header := range headers {
			record[i] = formatCell(row[header])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, headers []string, rows []repository.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerCells := make([]any, len(headers))
	for i, header := range headers {
		headerCells[i] = header
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("write sheet header: %w", err)
	}

	for i, row := range rows {
		cells := make([]any, len(headers))
		for j, header := range headers {
			cells[j] = cellValue(row[header])
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolve cell address: %w", err)
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return fmt.Errorf("write sheet row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// cellValue keeps basic types typed for the spreadsheet and stringifies the
// rest.
func cellValue(value any) any {
	switch v := value.(type) {
	case nil:
		return ""
	case bool, string, int, int32, int64, float32, float64, time.Time:
		return v
	default:
		return fmt.Sprint(v)
	}
}
