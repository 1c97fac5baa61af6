package measurements

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrUnknownField = errors.New("unknown measurement field")

// Field is one of the seven fixed body-part circumferences, in centimeters.
// The string value is the key used in the stored patient document.
type Field string

const (
	FieldPecho          Field = "pecho"
	FieldCintura        Field = "cintura"
	FieldCadera         Field = "cadera"
	FieldBrazoDerecho   Field = "brazoDerecho"
	FieldBrazoIzquierdo Field = "brazoIzquierdo"
	FieldMusloAlto      Field = "musloAlto"
	FieldPantorrilla    Field = "pantorrilla"
)

// AllFields lists the fields in display order.
var AllFields = []Field{
	FieldPecho,
	FieldCintura,
	FieldCadera,
	FieldBrazoDerecho,
	FieldBrazoIzquierdo,
	FieldMusloAlto,
	FieldPantorrilla,
}

func (f Field) String() string {
	return string(f)
}

func (f Field) IsValid() bool {
	switch f {
	case FieldPecho,
		FieldCintura,
		FieldCadera,
		FieldBrazoDerecho,
		FieldBrazoIzquierdo,
		FieldMusloAlto,
		FieldPantorrilla:
		return true
	default:
		return false
	}
}

func ParseField(s string) (Field, error) {
	f := Field(s)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// Record is one dated measurement entry. Date is a display string, not a
// timestamp, and it doubles as the (non-unique) key for edit and delete.
type Record struct {
	Date           string  `json:"date"`
	Pecho          float64 `json:"pecho"`
	Cintura        float64 `json:"cintura"`
	Cadera         float64 `json:"cadera"`
	BrazoDerecho   float64 `json:"brazoDerecho"`
	BrazoIzquierdo float64 `json:"brazoIzquierdo"`
	MusloAlto      float64 `json:"musloAlto"`
	Pantorrilla    float64 `json:"pantorrilla"`
}

func (r Record) Value(f Field) float64 {
	switch f {
	case FieldPecho:
		return r.Pecho
	case FieldCintura:
		return r.Cintura
	case FieldCadera:
		return r.Cadera
	case FieldBrazoDerecho:
		return r.BrazoDerecho
	case FieldBrazoIzquierdo:
		return r.BrazoIzquierdo
	case FieldMusloAlto:
		return r.MusloAlto
	case FieldPantorrilla:
		return r.Pantorrilla
	default:
		return 0
	}
}

// WithValue returns a copy of r with field f set to v. Unknown fields are ignored.
func (r Record) WithValue(f Field, v float64) Record {
	switch f {
	case FieldPecho:
		r.Pecho = v
	case FieldCintura:
		r.Cintura = v
	case FieldCadera:
		r.Cadera = v
	case FieldBrazoDerecho:
		r.BrazoDerecho = v
	case FieldBrazoIzquierdo:
		r.BrazoIzquierdo = v
	case FieldMusloAlto:
		r.MusloAlto = v
	case FieldPantorrilla:
		r.Pantorrilla = v
	}
	return r
}

// IsEmpty reports whether every measurement is zero.
func (r Record) IsEmpty() bool {
	for _, f := range AllFields {
		if r.Value(f) != 0 {
			return false
		}
	}
	return true
}

// ParseValue turns form input into a measurement. Anything that is not a
// finite number becomes 0.
func ParseValue(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(raw, ",", ".")), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatDate renders t the way the es locale short date does: d/m/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("2/1/2006")
}

// History is a patient's records, newest first.
type History []Record

// Clone returns a copy that never shares its backing array with h.
func (h History) Clone() History {
	c := make(History, len(h))
	copy(c, h)
	return c
}

// Prepend returns a new history with rec in front.
func (h History) Prepend(rec Record) History {
	out := make(History, 0, len(h)+1)
	out = append(out, rec)
	return append(out, h...)
}

// ReplaceByDate returns a new history where every record dated date is
// replaced by rec, and how many were replaced.
func (h History) ReplaceByDate(date string, rec Record) (History, int) {
	out := h.Clone()
	replaced := 0
	for i := range out {
		if out[i].Date == date {
			out[i] = rec
			replaced++
		}
	}
	return out, replaced
}

// RemoveByDate returns a new history without the records dated date, and
// how many were removed.
func (h History) RemoveByDate(date string) (History, int) {
	out := make(History, 0, len(h))
	for _, rec := range h {
		if rec.Date == date {
			continue
		}
		out = append(out, rec)
	}
	return out, len(h) - len(out)
}

// CountByDate returns the number of records dated date.
func (h History) CountByDate(date string) int {
	n := 0
	for _, rec := range h {
		if rec.Date == date {
			n++
		}
	}
	return n
}
