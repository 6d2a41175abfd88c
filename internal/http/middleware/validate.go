package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-board-backend/internal/i18n"
)

const payloadKey = "payload"

// ValidationError carries every field violation found in a request body.
type ValidationError struct {
	Violations []i18n.Message
}

// Error joins the untranslated violations.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateJSON binds the JSON body into a T and validates it with the
// `binding` tags. Each failing field contributes the message named by its
// `msg` tag (an i18n key), or a generic "<field> is invalid". All violations
// are collected before failing. An empty body is validated as the zero T.
//
// On success the payload is available to later steps via Payload[T].
func ValidateJSON[T any]() Step {
	return func(c *gin.Context) error {
		var payload T
		err := c.ShouldBindJSON(&payload)
		if errors.Is(err, io.EOF) {
			err = binding.Validator.ValidateStruct(&payload)
		}
		if err == nil {
			c.Set(payloadKey, payload)
			return nil
		}

		root := reflect.TypeOf(payload)
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return &ValidationError{Violations: violations(root, err)}
		}
		// The decoder keeps going after a type mismatch, so the rest of the
		// body is still checked. The mistyped field is reported once.
		msg, skip := typeViolation(root, typeErr)
		out := []i18n.Message{msg}
		var verrs validator.ValidationErrors
		if errors.As(binding.Validator.ValidateStruct(&payload), &verrs) {
			out = append(out, fieldViolations(root, verrs, skip)...)
		}
		return &ValidationError{Violations: out}
	}
}

// Payload returns the body stored by ValidateJSON[T].
func Payload[T any](c *gin.Context) T {
	v, _ := c.Get(payloadKey)
	p, _ := v.(T)
	return p
}

func violations(root reflect.Type, err error) []i18n.Message {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fieldViolations(root, verrs, "")
	}
	return []i18n.Message{i18n.M(i18n.MsgInvalidJSON)}
}

// fieldViolations renders validator errors in field order, leaving out the
// field whose Go path is skip.
func fieldViolations(root reflect.Type, verrs validator.ValidationErrors, skip string) []i18n.Message {
	out := make([]i18n.Message, 0, len(verrs))
	for _, fe := range verrs {
		sf, path, ok := lookupField(root, strings.Split(fe.StructNamespace(), ".")[1:], structName)
		if ok && skip != "" && path == skip {
			continue
		}
		out = append(out, fieldMessage(sf, ok, fe.Field()))
	}
	return out
}

// typeViolation reports a JSON value of the wrong type and returns the Go
// path of the field it landed on.
func typeViolation(root reflect.Type, typeErr *json.UnmarshalTypeError) (i18n.Message, string) {
	name := typeErr.Field
	sf, path, ok := lookupField(root, strings.Split(name, "."), jsonName)
	if !ok {
		return i18n.M(i18n.MsgInvalidFieldType, name), ""
	}
	if key := sf.Tag.Get("msg"); key != "" {
		return i18n.M(i18n.Key(key)), path
	}
	return i18n.M(i18n.MsgInvalidFieldType, jsonName(sf)), path
}

func fieldMessage(sf reflect.StructField, ok bool, fallback string) i18n.Message {
	if !ok {
		return i18n.M(i18n.MsgFieldInvalid, fallback)
	}
	if key := sf.Tag.Get("msg"); key != "" {
		return i18n.M(i18n.Key(key))
	}
	return i18n.M(i18n.MsgFieldInvalid, jsonName(sf))
}

// lookupField walks path through t (and nested structs, pointers, slices),
// matching each segment with name. It also returns the Go field names along
// the way, joined with dots.
func lookupField(t reflect.Type, path []string, name func(reflect.StructField) string) (reflect.StructField, string, bool) {
	var (
		found  reflect.StructField
		goPath []string
	)
	for _, seg := range path {
		if i := strings.IndexByte(seg, '['); i >= 0 {
			seg = seg[:i]
		}
		t = indirect(t)
		if t.Kind() != reflect.Struct {
			return found, "", false
		}
		ok := false
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); name(f) == seg {
				found, t, ok = f, f.Type, true
				goPath = append(goPath, f.Name)
				break
			}
		}
		if !ok {
			return found, "", false
		}
	}
	return found, strings.Join(goPath, "."), len(path) > 0
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	return t
}

func structName(f reflect.StructField) string { return f.Name }

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
