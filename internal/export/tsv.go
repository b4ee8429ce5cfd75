package export

import (
	"fmt"
	"io"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"

	"github.com/nvandessel/saccadegen/internal/store"
)

// EventTable builds the per-event log table of a run.
func EventTable(run *store.Run) *etable.Table {
	sch := make(etable.Schema, len(Columns))
	for i, name := range Columns {
		typ := etensor.FLOAT64
		if isIntColumn(i) {
			typ = etensor.INT64
		}
		sch[i] = etable.Column{Name: name, Type: typ}
	}

	dt := &etable.Table{}
	dt.SetMetaData("name", "SaccadeEvents")
	dt.SetMetaData("desc", fmt.Sprintf("run %s, scenario %s, rmse %g", run.ID, run.Scenario, run.RMSE))
	dt.SetFromSchema(sch, len(run.Events))

	for row, e := range run.Events {
		for i, v := range eventValues(e) {
			dt.SetCellFloat(Columns[i], row, v)
		}
	}
	return dt
}

// WriteTSV writes the event table as tab-separated values with etable
// headers.
func WriteTSV(w io.Writer, run *store.Run) error {
	dt := EventTable(run)
	if _, err := dt.WriteCSVHeaders(w, etable.Tab); err != nil {
		return fmt.Errorf("failed to write tsv headers: %w", err)
	}
	for row := 0; row < dt.Rows; row++ {
		if err := dt.WriteCSVRow(w, row, etable.Tab); err != nil {
			return fmt.Errorf("failed to write tsv row %d: %w", row, err)
		}
	}
	return nil
}
