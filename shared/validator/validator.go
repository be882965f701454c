package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"rento/shared/base64"
	"rento/shared/constant"
	"rento/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const (
	bytesPerMB = 1 << 20
	// maxPrice is the largest amount a NUMERIC(12,2) column holds.
	maxPrice = 9_999_999_999.99
)

var validate = newValidate()

// mimetypes=image/png image/jpeg accepts a data URI of one of the listed media types.
func validateMimetypes(field val.FieldLevel) bool {
	contentType := base64.GetContentType(field.Field().String())
	if contentType == "" {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

// maxfilesize=5 caps the decoded size of a data URI in megabytes.
func validateMaxFileSize(field val.FieldLevel) bool {
	maxMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	encoded := field.Field().String()
	if i := strings.IndexByte(encoded, ','); i >= 0 {
		encoded = encoded[i+1:]
	}

	return float64(len(encoded)/4*3) <= maxMB*bytesPerMB
}

// calendardate accepts YYYY-MM-DD only, no time or zone.
func validateCalendarDate(field val.FieldLevel) bool {
	_, err := time.Parse(constant.CalendarFormat, field.Field().String())

	return err == nil
}

// price accepts a positive amount of whole cents that fits the price columns. Fractions of a cent
// would round away in storage.
func validatePrice(field val.FieldLevel) bool {
	amount := field.Field().Float()
	if amount < 0.01 || amount > maxPrice {
		return false
	}

	cents := amount * 100

	return math.Abs(cents-math.Round(cents)) < 1e-6
}

// jsonFieldName reports fields by their JSON name so messages match what clients sent.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	custom := map[string]val.Func{
		"mimetypes":    validateMimetypes,
		"maxfilesize":  validateMaxFileSize,
		"calendardate": validateCalendarDate,
		"price":        validatePrice,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// Validate decodes a JSON body into data and validates it. Both decode and validation problems come
// back as a 400 Failure.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
