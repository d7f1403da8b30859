package assessment

type InputKind string

const (
	InputSlider InputKind = "slider"
	InputSelect InputKind = "select"
	InputToggle InputKind = "toggle"
)

type Option struct {
	Label string
	Value int
}

// FieldSpec describes how a field is rendered on the form.
type FieldSpec struct {
	Field       Field
	Label       string
	Unit        string
	Description string
	Kind        InputKind
	Options     []Option
}

var levelOptions = []Option{
	{Label: "Normal", Value: int(LevelNormal)},
	{Label: "Above Normal", Value: int(LevelAboveNormal)},
	{Label: "Well Above Normal", Value: int(LevelWellAboveNormal)},
}

var fieldSpecs = map[Field]FieldSpec{
	FieldAge:    {Field: FieldAge, Label: "Age", Unit: "years", Kind: InputSlider},
	FieldSex:    {Field: FieldSex, Label: "Gender", Kind: InputSelect, Options: []Option{{Label: "Female", Value: int(SexFemale)}, {Label: "Male", Value: int(SexMale)}}},
	FieldHeight: {Field: FieldHeight, Label: "Height", Unit: "cm", Kind: InputSlider},
	FieldWeight: {Field: FieldWeight, Label: "Weight", Unit: "kg", Kind: InputSlider},

	FieldSystolic:  {Field: FieldSystolic, Label: "Systolic (Upper)", Unit: "mmHg", Kind: InputSlider},
	FieldDiastolic: {Field: FieldDiastolic, Label: "Diastolic (Lower)", Unit: "mmHg", Kind: InputSlider},

	FieldCholesterol: {Field: FieldCholesterol, Label: "Cholesterol Level", Kind: InputSelect, Options: levelOptions},
	FieldGlucose:     {Field: FieldGlucose, Label: "Glucose Level", Kind: InputSelect, Options: levelOptions},

	FieldSmoker:  {Field: FieldSmoker, Label: "Smoker", Description: "Currently smoking tobacco", Kind: InputToggle},
	FieldAlcohol: {Field: FieldAlcohol, Label: "Alcohol Consumption", Description: "Regular alcohol intake", Kind: InputToggle},
	FieldActive:  {Field: FieldActive, Label: "Physically Active", Description: "Regular physical activity", Kind: InputToggle},
}

func SpecOf(f Field) (FieldSpec, bool) {
	spec, ok := fieldSpecs[f]
	return spec, ok
}

// OptionLabel returns the display label of a select value, or "" when the
// field has no such option.
func OptionLabel(f Field, value int) string {
	for _, opt := range fieldSpecs[f].Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return ""
}

// YesNo is the toggle caption.
func YesNo(value int) string {
	if value == 1 {
		return "Yes"
	}
	return "No"
}
