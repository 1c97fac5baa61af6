package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/2beens/bodymeasures/internal/measurements"
)

var errBadInput = errors.New("bad input")

// ignored keys a client may send along with the field values
var ignoredInputKeys = map[string]bool{
	"date": true,
}

// readFieldValues reads measurement values from a JSON object or a form
// body. Values may be numbers or strings; anything unparsable becomes 0.
// Only the fields present in the body are returned.
func readFieldValues(r *http.Request) (map[measurements.Field]float64, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return readJSONFieldValues(r.Body)
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: parse form: %w", errBadInput, err)
	}
	values := make(map[measurements.Field]float64)
	for key := range r.PostForm {
		if ignoredInputKeys[key] {
			continue
		}
		f, err := measurements.ParseField(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadInput, err)
		}
		values[f] = measurements.ParseValue(r.PostForm.Get(key))
	}
	return values, nil
}

func readJSONFieldValues(body io.Reader) (map[measurements.Field]float64, error) {
	raw := map[string]any{}
	decoder := json.NewDecoder(body)
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", errBadInput, err)
	}

	values := make(map[measurements.Field]float64, len(raw))
	for key, v := range raw {
		if ignoredInputKeys[key] {
			continue
		}
		f, err := measurements.ParseField(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadInput, err)
		}
		switch val := v.(type) {
		case json.Number:
			values[f] = measurements.ParseValue(val.String())
		case string:
			values[f] = measurements.ParseValue(val)
		default:
			values[f] = 0
		}
	}
	return values, nil
}
