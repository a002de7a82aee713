package utils

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// Table is a flattened view of a slice of structs: one column per JSON field, in
// declaration order, with embedded structs inlined the way encoding/json does.
type Table struct {
	Columns []string
	Rows    [][]any
}

func NewTable(records any) (Table, error) {
	value := reflect.ValueOf(records)
	if value.Kind() != reflect.Slice {
		return Table{}, fmt.Errorf("export expects a slice, got %T", records)
	}

	elemType := value.Type().Elem()
	if elemType.Kind() == reflect.Pointer {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return Table{}, fmt.Errorf("export expects a slice of structs, got %T", records)
	}

	var fields []exportField
	collectFields(elemType, nil, &fields)

	table := Table{Columns: make([]string, len(fields))}
	for i, field := range fields {
		table.Columns[i] = field.name
	}

	for i := 0; i < value.Len(); i++ {
		record := reflect.Indirect(value.Index(i))
		row := make([]any, len(fields))
		for j, field := range fields {
			row[j] = cellValue(record, field.index)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

type exportField struct {
	name  string
	index []int
}

func collectFields(t reflect.Type, parent []int, fields *[]exportField) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(append([]int{}, parent...), i)

		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if field.Anonymous && name == "" && field.Type.Kind() == reflect.Struct {
			collectFields(field.Type, index, fields)
			continue
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		*fields = append(*fields, exportField{name: name, index: index})
	}
}

func cellValue(record reflect.Value, index []int) any {
	value := record.FieldByIndex(index)
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}

	switch v := value.Interface().(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		if value.Kind() == reflect.String {
			return value.String()
		}
		return v
	}
}

// ExportCSV renders records with an unquoted header line and every value wrapped
// in double quotes. Null values become empty strings. An empty slice yields "".
func ExportCSV(records any) (string, error) {
	table, err := NewTable(records)
	if err != nil {
		return "", err
	}
	if len(table.Rows) == 0 {
		return "", nil
	}

	lines := make([]string, 0, len(table.Rows)+1)
	lines = append(lines, strings.Join(table.Columns, ","))
	for _, row := range table.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			text := ""
			if cell != nil {
				text = fmt.Sprint(cell)
			}
			cells[i] = `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n"), nil
}

// ExportXLSX writes the same table into a single worksheet named after sheet.
func ExportXLSX(sheet string, records any) ([]byte, error) {
	table, err := NewTable(records)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := make([]any, len(table.Columns))
	for i, column := range table.Columns {
		header[i] = column
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range table.Rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			if cell == nil {
				cells[j] = ""
				continue
			}
			cells[j] = cell
		}
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(sheet, cellName, &cells); err != nil {
			return nil, err
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename is "<tab>_<YYYY-MM-DD>.<format>" using the UTC date.
func ExportFilename(tab string, now time.Time, format string) string {
	return fmt.Sprintf("%s_%s.%s", tab, now.UTC().Format("2006-01-02"), format)
}
