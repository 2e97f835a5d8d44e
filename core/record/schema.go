package record

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gestionschool/gestionecole/core"
)

// Schema describes how records of type T are stored: the collection they live in,
// where their identifier is and which fields can be looked up by equality.
type Schema[T any] struct {
	Collection string
	ID         func(*T) *string
	Lookups    []string
}

// Field is a stored attribute of a record, named after its JSON tag.
type Field struct {
	Name string
	Kind reflect.Kind
}

// Fields lists the record attributes in declaration order, identifier included.
// Pointer fields report the kind of the pointed-to value.
func (s Schema[T]) Fields() []Field {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	flds := make([]Field, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "-" || !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		ft := sf.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		flds = append(flds, Field{Name: name, Kind: ft.Kind()})
	}
	return flds
}

// HasLookup reports whether `field` was declared as a lookup field.
func (s Schema[T]) HasLookup(field string) bool {
	for _, l := range s.Lookups {
		if l == field {
			return true
		}
	}
	return false
}

// GetID returns the identifier of rec, "" when unset.
func (s Schema[T]) GetID(rec *T) string {
	return *s.ID(rec)
}

// SetID overwrites the identifier of rec.
func (s Schema[T]) SetID(rec *T, id string) {
	*s.ID(rec) = id
}

// Coerce converts string values of numeric and boolean fields to their stored kind,
// as HTML forms send them. Blank strings become null.
// Unparsable values are reported per field in a *core.ValidationError.
func (s Schema[T]) Coerce(values map[string]interface{}) error {
	var flds []core.FieldError
	for _, fld := range s.Fields() {
		str, ok := values[fld.Name].(string)
		if !ok {
			continue
		}
		str = strings.TrimSpace(str)
		if str == "" && fld.Kind != reflect.String {
			values[fld.Name] = nil
			continue
		}

		var err error
		switch fld.Kind {
		case reflect.Int, reflect.Int64:
			values[fld.Name], err = strconv.Atoi(str)
		case reflect.Float64:
			values[fld.Name], err = strconv.ParseFloat(str, 64)
		case reflect.Bool:
			values[fld.Name], err = strconv.ParseBool(str)
		}
		if err != nil {
			flds = append(flds, core.FieldError{Field: fld.Name, Error: "invalid " + fld.Kind.String() + " value"})
		}
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Decode coerces `values` and builds the record they describe.
func (s Schema[T]) Decode(values map[string]interface{}) (T, error) {
	var rec T
	if err := s.Coerce(values); err != nil {
		return rec, err
	}
	data, err := json.Marshal(values)
	if err != nil {
		return rec, errors.Wrapf(err, "encoding %s", s.Collection)
	}
	if err = json.Unmarshal(data, &rec); err != nil {
		return rec, errors.Wrapf(err, "decoding %s", s.Collection)
	}
	return rec, nil
}
