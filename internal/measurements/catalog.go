package measurements

import "strings"

// Sex keys the reference table. The set is open: keys other than the two
// below are accepted, they just have no reference ranges.
type Sex string

const (
	SexHombre Sex = "hombre"
	SexMujer  Sex = "mujer"

	DefaultSex = SexHombre
)

// NormalizeSex lowercases the stored value; a missing value means hombre.
func NormalizeSex(raw string) Sex {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return DefaultSex
	}
	return Sex(s)
}

func (s Sex) String() string {
	return string(s)
}

// ReferenceRange is an inclusive [Min, Max] interval in cm.
type ReferenceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

const (
	StatusBelow  = "below"
	StatusWithin = "within"
	StatusAbove  = "above"
)

// Classify places v relative to the range. Zero means "not measured" and
// yields an empty status.
func (rr ReferenceRange) Classify(v float64) string {
	switch {
	case v == 0:
		return ""
	case v < rr.Min:
		return StatusBelow
	case v > rr.Max:
		return StatusAbove
	default:
		return StatusWithin
	}
}

type FieldLabel struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

var referenceRanges = map[Sex]map[Field]ReferenceRange{
	SexHombre: {
		FieldPecho:          {Min: 90, Max: 110},
		FieldCintura:        {Min: 75, Max: 95},
		FieldCadera:         {Min: 90, Max: 105},
		FieldBrazoDerecho:   {Min: 28, Max: 38},
		FieldBrazoIzquierdo: {Min: 28, Max: 38},
		FieldMusloAlto:      {Min: 50, Max: 62},
		FieldPantorrilla:    {Min: 34, Max: 42},
	},
	SexMujer: {
		FieldPecho:          {Min: 80, Max: 100},
		FieldCintura:        {Min: 60, Max: 85},
		FieldCadera:         {Min: 90, Max: 110},
		FieldBrazoDerecho:   {Min: 24, Max: 32},
		FieldBrazoIzquierdo: {Min: 24, Max: 32},
		FieldMusloAlto:      {Min: 48, Max: 60},
		FieldPantorrilla:    {Min: 32, Max: 40},
	},
}

var fieldLabels = map[Field]FieldLabel{
	FieldPecho: {
		Label:       "Pecho",
		Description: "Contorno a la altura de los pezones, con los brazos relajados.",
		Unit:        "cm",
	},
	FieldCintura: {
		Label:       "Cintura",
		Description: "Punto más estrecho del abdomen, por encima del ombligo.",
		Unit:        "cm",
	},
	FieldCadera: {
		Label:       "Cadera",
		Description: "Parte más ancha de los glúteos, con los pies juntos.",
		Unit:        "cm",
	},
	FieldBrazoDerecho: {
		Label:       "Brazo derecho",
		Description: "Punto medio entre hombro y codo, brazo relajado.",
		Unit:        "cm",
	},
	FieldBrazoIzquierdo: {
		Label:       "Brazo izquierdo",
		Description: "Punto medio entre hombro y codo, brazo relajado.",
		Unit:        "cm",
	},
	FieldMusloAlto: {
		Label:       "Muslo alto",
		Description: "Justo debajo del pliegue del glúteo.",
		Unit:        "cm",
	},
	FieldPantorrilla: {
		Label:       "Pantorrilla",
		Description: "Parte más ancha de la pantorrilla, de pie.",
		Unit:        "cm",
	},
}

// LookupRange returns the reference range for sex and field. ok is false
// when the catalog has no entry, which is not the same as out of range.
func LookupRange(sex Sex, field Field) (_ ReferenceRange, ok bool) {
	ranges, ok := referenceRanges[sex]
	if !ok {
		return ReferenceRange{}, false
	}
	rr, ok := ranges[field]
	return rr, ok
}

// LabelFor is total over AllFields.
func LabelFor(field Field) FieldLabel {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return FieldLabel{Label: field.String(), Unit: "cm"}
}

type ReferenceRow struct {
	Field Field `json:"field"`
	FieldLabel
	Range *ReferenceRange `json:"range,omitempty"`
}

// ReferenceGrid builds one row per field for the given sex. Rows without a
// range carry only label and description.
func ReferenceGrid(sex Sex) []ReferenceRow {
	rows := make([]ReferenceRow, 0, len(AllFields))
	for _, f := range AllFields {
		row := ReferenceRow{
			Field:      f,
			FieldLabel: LabelFor(f),
		}
		if rr, ok := LookupRange(sex, f); ok {
			row.Range = &rr
		}
		rows = append(rows, row)
	}
	return rows
}
