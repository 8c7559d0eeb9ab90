package export

import (
	"fmt"
	"io"

	"energydash/internal/models"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// TableSchema maps table columns to an Arrow schema: the year column is a
// non-null int64, every series column a nullable float64.
func TableSchema(columns []models.Column) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(columns))
	for _, col := range columns {
		if col.ID == YearColumn {
			fields = append(fields, arrow.Field{Name: col.ID, Type: arrow.PrimitiveTypes.Int64})
			continue
		}
		fields = append(fields, arrow.Field{
			Name:     col.ID,
			Type:     arrow.PrimitiveTypes.Float64,
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{"label"}, []string{col.Name}),
		})
	}
	return arrow.NewSchema(fields, nil)
}

// WriteArrow writes rows as a single-batch Arrow IPC stream. A series
// missing from a row becomes a null.
func WriteArrow(w io.Writer, columns []models.Column, rows []models.TableRow) error {
	mem := memory.NewGoAllocator()
	schema := TableSchema(columns)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for _, row := range rows {
		for i, col := range columns {
			switch fb := b.Field(i).(type) {
			case *array.Int64Builder:
				fb.Append(int64(row.Year))
			case *array.Float64Builder:
				if v, ok := row.Cells[col.ID]; ok {
					fb.Append(v)
				} else {
					fb.AppendNull()
				}
			}
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		iw.Close()
		return fmt.Errorf("write arrow batch: %w", err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("close arrow stream: %w", err)
	}
	return nil
}
