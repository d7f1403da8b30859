package web

import (
	"fmt"

	"github.com/synaptica-ai/cardiocheck/pkg/assessment"
	"github.com/synaptica-ai/cardiocheck/pkg/content"
	"github.com/synaptica-ai/cardiocheck/pkg/session"
)

type fieldView struct {
	Name        string
	Label       string
	Description string
	Kind        assessment.InputKind
	Value       int
	Min         int
	Max         int
	Display     string
	Options     []optionView
}

type optionView struct {
	Label    string
	Value    int
	Selected bool
}

type infoBox struct {
	Label string
	Value string
}

type formSection struct {
	Title  string
	Fields []fieldView
	Info   *infoBox
}

type landingPage struct {
	Catalog content.Catalog
}

type assessmentPage struct {
	Catalog    content.Catalog
	Snapshot   session.Snapshot
	Sections   []formSection
	Submitting bool
}

var sectionLayout = []struct {
	title  string
	fields []assessment.Field
}{
	{"Personal Information", []assessment.Field{assessment.FieldAge, assessment.FieldSex}},
	{"Body Measurements", []assessment.Field{assessment.FieldHeight, assessment.FieldWeight}},
	{"Blood Pressure", []assessment.Field{assessment.FieldSystolic, assessment.FieldDiastolic}},
	{"Health Indicators", []assessment.Field{assessment.FieldCholesterol, assessment.FieldGlucose}},
	{"Lifestyle Factors", []assessment.Field{assessment.FieldSmoker, assessment.FieldAlcohol, assessment.FieldActive}},
}

func buildAssessmentPage(cat content.Catalog, snap session.Snapshot) assessmentPage {
	page := assessmentPage{
		Catalog:    cat,
		Snapshot:   snap,
		Submitting: snap.Status == session.StatusSubmitting,
	}
	for _, layout := range sectionLayout {
		section := formSection{Title: layout.title}
		for _, f := range layout.fields {
			section.Fields = append(section.Fields, buildField(snap.Profile, f))
		}
		switch layout.title {
		case "Body Measurements":
			section.Info = &infoBox{Label: "Body Mass Index (BMI)", Value: snap.Derived.BMIDisplay}
		case "Blood Pressure":
			section.Info = &infoBox{Label: "BP Category", Value: snap.Derived.BloodPressure}
		}
		page.Sections = append(page.Sections, section)
	}
	return page
}

func buildField(p assessment.HealthProfile, f assessment.Field) fieldView {
	spec, _ := assessment.SpecOf(f)
	bounds, _ := assessment.BoundsOf(f)
	value, _ := p.Get(f)

	view := fieldView{
		Name:        string(f),
		Label:       spec.Label,
		Description: spec.Description,
		Kind:        spec.Kind,
		Value:       value,
		Min:         bounds.Min,
		Max:         bounds.Max,
	}
	switch spec.Kind {
	case assessment.InputSlider:
		view.Display = fmt.Sprintf("%d %s", value, spec.Unit)
	case assessment.InputSelect:
		view.Display = assessment.OptionLabel(f, value)
		for _, opt := range spec.Options {
			view.Options = append(view.Options, optionView{Label: opt.Label, Value: opt.Value, Selected: opt.Value == value})
		}
	case assessment.InputToggle:
		view.Display = assessment.YesNo(value)
	}
	return view
}
