package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/nvandessel/saccadegen/internal/store"
)

// ArrowSchema returns the per-event record schema. Run-level values are
// attached as schema metadata.
func ArrowSchema(run *store.Run) *arrow.Schema {
	fields := make([]arrow.Field, len(Columns))
	for i, name := range Columns {
		var typ arrow.DataType = arrow.PrimitiveTypes.Float64
		if isIntColumn(i) {
			typ = arrow.PrimitiveTypes.Int64
		}
		fields[i] = arrow.Field{Name: name, Type: typ}
	}
	md := arrow.NewMetadata(
		[]string{"run_id", "scenario", "backend", "rmse"},
		[]string{run.ID, run.Scenario, run.Backend, fmt.Sprintf("%g", run.RMSE)},
	)
	return arrow.NewSchema(fields, &md)
}

// WriteArrow writes the events as a single record batch in an Arrow IPC
// stream.
func WriteArrow(w io.Writer, run *store.Run) error {
	mem := memory.NewGoAllocator()
	schema := ArrowSchema(run)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for _, e := range run.Events {
		for i, v := range eventValues(e) {
			switch fb := b.Field(i).(type) {
			case *array.Int64Builder:
				fb.Append(int64(v))
			case *array.Float64Builder:
				fb.Append(v)
			}
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return fmt.Errorf("failed to write arrow record: %w", err)
	}
	if err := wr.Close(); err != nil {
		return fmt.Errorf("failed to close arrow writer: %w", err)
	}
	return nil
}
