package assessment

import (
	"errors"
	"fmt"
	"strconv"
)

// Sex is the biological sex field, encoded as the predictor expects.
type Sex int

const (
	SexFemale Sex = 0
	SexMale   Sex = 1
)

// Level grades cholesterol and glucose readings.
type Level int

const (
	LevelNormal          Level = 1
	LevelAboveNormal     Level = 2
	LevelWellAboveNormal Level = 3
)

// Flag is a yes/no answer sent to the predictor as 0 or 1.
type Flag bool

func (f Flag) Int() int {
	if f {
		return 1
	}
	return 0
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(f.Int())), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "1", "true":
		*f = true
	case "0", "false":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %s", data)
	}
	return nil
}

// HealthProfile is the form state. Field order matches the wire order of
// the prediction request.
type HealthProfile struct {
	Age              int   `json:"age"`
	Sex              Sex   `json:"gender"`
	HeightCm         int   `json:"height"`
	WeightKg         int   `json:"weight"`
	SystolicBP       int   `json:"ap_hi"`
	DiastolicBP      int   `json:"ap_lo"`
	Cholesterol      Level `json:"cholesterol"`
	Glucose          Level `json:"gluc"`
	Smoker           Flag  `json:"smoke"`
	Alcohol          Flag  `json:"alco"`
	PhysicallyActive Flag  `json:"active"`
}

// DefaultProfile is the state every session starts from and reset restores.
func DefaultProfile() HealthProfile {
	return HealthProfile{
		Age:              30,
		Sex:              SexMale,
		HeightCm:         170,
		WeightKg:         70,
		SystolicBP:       120,
		DiastolicBP:      80,
		Cholesterol:      LevelNormal,
		Glucose:          LevelNormal,
		Smoker:           false,
		Alcohol:          false,
		PhysicallyActive: true,
	}
}

// Field names one form input. Values are the JSON keys of HealthProfile.
type Field string

const (
	FieldAge         Field = "age"
	FieldSex         Field = "gender"
	FieldHeight      Field = "height"
	FieldWeight      Field = "weight"
	FieldSystolic    Field = "ap_hi"
	FieldDiastolic   Field = "ap_lo"
	FieldCholesterol Field = "cholesterol"
	FieldGlucose     Field = "gluc"
	FieldSmoker      Field = "smoke"
	FieldAlcohol     Field = "alco"
	FieldActive      Field = "active"
)

// Fields lists every input in form order.
var Fields = []Field{
	FieldAge, FieldSex, FieldHeight, FieldWeight,
	FieldSystolic, FieldDiastolic,
	FieldCholesterol, FieldGlucose,
	FieldSmoker, FieldAlcohol, FieldActive,
}

// Bounds is the inclusive range a field accepts.
type Bounds struct {
	Min int
	Max int
}

var fieldBounds = map[Field]Bounds{
	FieldAge:         {Min: 18, Max: 100},
	FieldSex:         {Min: 0, Max: 1},
	FieldHeight:      {Min: 140, Max: 210},
	FieldWeight:      {Min: 40, Max: 150},
	FieldSystolic:    {Min: 90, Max: 200},
	FieldDiastolic:   {Min: 60, Max: 130},
	FieldCholesterol: {Min: 1, Max: 3},
	FieldGlucose:     {Min: 1, Max: 3},
	FieldSmoker:      {Min: 0, Max: 1},
	FieldAlcohol:     {Min: 0, Max: 1},
	FieldActive:      {Min: 0, Max: 1},
}

var (
	ErrUnknownField = errors.New("unknown field")
	ErrOutOfRange   = errors.New("value out of range")
)

type ValidationError struct {
	Field  Field
	reason error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.reason)
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ParseField resolves a form or URL field name.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if _, ok := fieldBounds[f]; !ok {
		return "", ValidationError{Field: f, reason: ErrUnknownField}
	}
	return f, nil
}

// BoundsOf returns the accepted range for f.
func BoundsOf(f Field) (Bounds, bool) {
	b, ok := fieldBounds[f]
	return b, ok
}

func checkRange(f Field, value int) error {
	b, ok := fieldBounds[f]
	if !ok {
		return ValidationError{Field: f, reason: ErrUnknownField}
	}
	if value < b.Min || value > b.Max {
		return ValidationError{Field: f, reason: fmt.Errorf("%d not in [%d,%d]: %w", value, b.Min, b.Max, ErrOutOfRange)}
	}
	return nil
}

// Set updates one field in place. Out-of-range values leave p unchanged.
func (p *HealthProfile) Set(f Field, value int) error {
	if err := checkRange(f, value); err != nil {
		return err
	}
	switch f {
	case FieldAge:
		p.Age = value
	case FieldSex:
		p.Sex = Sex(value)
	case FieldHeight:
		p.HeightCm = value
	case FieldWeight:
		p.WeightKg = value
	case FieldSystolic:
		p.SystolicBP = value
	case FieldDiastolic:
		p.DiastolicBP = value
	case FieldCholesterol:
		p.Cholesterol = Level(value)
	case FieldGlucose:
		p.Glucose = Level(value)
	case FieldSmoker:
		p.Smoker = value == 1
	case FieldAlcohol:
		p.Alcohol = value == 1
	case FieldActive:
		p.PhysicallyActive = value == 1
	}
	return nil
}

// Get returns the wire value of one field.
func (p HealthProfile) Get(f Field) (int, error) {
	switch f {
	case FieldAge:
		return p.Age, nil
	case FieldSex:
		return int(p.Sex), nil
	case FieldHeight:
		return p.HeightCm, nil
	case FieldWeight:
		return p.WeightKg, nil
	case FieldSystolic:
		return p.SystolicBP, nil
	case FieldDiastolic:
		return p.DiastolicBP, nil
	case FieldCholesterol:
		return int(p.Cholesterol), nil
	case FieldGlucose:
		return int(p.Glucose), nil
	case FieldSmoker:
		return p.Smoker.Int(), nil
	case FieldAlcohol:
		return p.Alcohol.Int(), nil
	case FieldActive:
		return p.PhysicallyActive.Int(), nil
	}
	return 0, ValidationError{Field: f, reason: ErrUnknownField}
}

// Validate checks every field against its documented domain.
func (p HealthProfile) Validate() error {
	for _, f := range Fields {
		value, err := p.Get(f)
		if err != nil {
			return err
		}
		if err := checkRange(f, value); err != nil {
			return err
		}
	}
	return nil
}
