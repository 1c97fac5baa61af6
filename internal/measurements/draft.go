package measurements

// Draft holds the values a patient has typed so far. Fields never set are
// absent and count as 0.
type Draft struct {
	values map[Field]float64
}

func NewDraft() Draft {
	return Draft{values: make(map[Field]float64)}
}

// Set parses raw; invalid input is stored as 0 instead of failing.
func (d *Draft) Set(f Field, raw string) {
	d.SetValue(f, ParseValue(raw))
}

// SetValue ignores fields outside AllFields.
func (d *Draft) SetValue(f Field, v float64) {
	if !f.IsValid() {
		return
	}
	if d.values == nil {
		d.values = make(map[Field]float64)
	}
	d.values[f] = v
}

// Get returns the value and whether the field was set at all.
func (d Draft) Get(f Field) (float64, bool) {
	v, ok := d.values[f]
	return v, ok
}

// IsEmpty is true when every field is absent or zero.
func (d Draft) IsEmpty() bool {
	for _, f := range AllFields {
		if d.values[f] != 0 {
			return false
		}
	}
	return true
}

// ToRecord builds a record dated date, absent fields defaulting to 0.
func (d Draft) ToRecord(date string) Record {
	rec := Record{Date: date}
	for f, v := range d.values {
		rec = rec.WithValue(f, v)
	}
	return rec
}

func (d Draft) Clone() Draft {
	c := NewDraft()
	for f, v := range d.values {
		c.values[f] = v
	}
	return c
}

func (d *Draft) Clear() {
	d.values = make(map[Field]float64)
}
