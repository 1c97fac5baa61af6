package measurements

import "strconv"

const placeholderDash = "-"

type Cell struct {
	Field  Field   `json:"field"`
	Value  float64 `json:"value"`
	Text   string  `json:"text"`
	Status string  `json:"status,omitempty"`
}

// TableRow is one history record as displayed. Edit is set only on rows
// that are currently in edit mode in the clinician view.
type TableRow struct {
	Date    string  `json:"date"`
	Cells   []Cell  `json:"cells"`
	Editing bool    `json:"editing,omitempty"`
	Edit    *Record `json:"edit,omitempty"`
}

// FormatValue shows a measurement, or a dash when it was never taken.
func FormatValue(v float64) string {
	if v == 0 {
		return placeholderDash
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderRows keeps history order. When sex is non-empty every cell is
// classified against the reference catalog.
func RenderRows(history History, sex Sex) []TableRow {
	rows := make([]TableRow, 0, len(history))
	for _, rec := range history {
		rows = append(rows, renderRow(rec, sex))
	}
	return rows
}

func renderRow(rec Record, sex Sex) TableRow {
	row := TableRow{
		Date:  rec.Date,
		Cells: make([]Cell, 0, len(AllFields)),
	}
	for _, f := range AllFields {
		v := rec.Value(f)
		cell := Cell{
			Field: f,
			Value: v,
			Text:  FormatValue(v),
		}
		if sex != "" {
			if rr, ok := LookupRange(sex, f); ok {
				cell.Status = rr.Classify(v)
			}
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}
