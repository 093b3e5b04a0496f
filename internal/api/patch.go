package api

import "encoding/json"

// Optional distinguishes absent, null, and set fields in PATCH bodies:
// Present is false when the key was omitted entirely, Valid is false when
// the key was present with a JSON null.
type Optional[T any] struct {
	Present bool
	Valid   bool
	Value   T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
