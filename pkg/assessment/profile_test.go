package assessment

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDefaultProfileWireFormat(t *testing.T) {
	body, err := json.Marshal(DefaultProfile())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"age":30,"gender":1,"height":170,"weight":70,"ap_hi":120,"ap_lo":80,"cholesterol":1,"gluc":1,"smoke":0,"alco":0,"active":1}`
	if string(body) != want {
		t.Fatalf("unexpected body\n got: %s\nwant: %s", body, want)
	}
}

func TestProfileDecodesBooleanAndIntegerFlags(t *testing.T) {
	var p HealthProfile
	body := `{"age":55,"gender":0,"height":160,"weight":90,"ap_hi":150,"ap_lo":95,"cholesterol":3,"gluc":2,"smoke":true,"alco":1,"active":0}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !p.Smoker || !p.Alcohol || p.PhysicallyActive {
		t.Fatalf("unexpected flags %+v", p)
	}
	if p.Sex != SexFemale || p.Cholesterol != LevelWellAboveNormal {
		t.Fatalf("unexpected enums %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}

	if err := json.Unmarshal([]byte(`{"smoke":"yes"}`), &p); err == nil {
		t.Fatal("expected error for string flag")
	}
}

func TestSetUpdatesSingleField(t *testing.T) {
	p := DefaultProfile()
	if err := p.Set(FieldSystolic, 145); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Set(FieldSmoker, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DefaultProfile()
	want.SystolicBP = 145
	want.Smoker = true
	if p != want {
		t.Fatalf("expected %+v, got %+v", want, p)
	}

	for _, f := range Fields {
		v, err := p.Get(f)
		if err != nil {
			t.Fatalf("get %s: %v", f, err)
		}
		clone := DefaultProfile()
		if err := clone.Set(f, v); err != nil {
			t.Fatalf("set %s=%d: %v", f, v, err)
		}
	}
}

func TestSetRejectsOutOfRange(t *testing.T) {
	p := DefaultProfile()
	cases := []struct {
		field Field
		value int
	}{
		{FieldAge, 17},
		{FieldAge, 101},
		{FieldHeight, 139},
		{FieldWeight, 151},
		{FieldSystolic, 201},
		{FieldDiastolic, 59},
		{FieldCholesterol, 0},
		{FieldGlucose, 4},
		{FieldSex, 2},
		{FieldActive, -1},
	}
	for _, tc := range cases {
		err := p.Set(tc.field, tc.value)
		if err == nil {
			t.Fatalf("expected error for %s=%d", tc.field, tc.value)
		}
		if !IsValidationError(err) || !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("expected out of range validation error, got %v", err)
		}
	}
	if p != DefaultProfile() {
		t.Fatalf("rejected updates must not mutate profile: %+v", p)
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("ap_lo")
	if err != nil || f != FieldDiastolic {
		t.Fatalf("expected diastolic field, got %q %v", f, err)
	}
	_, err = ParseField("heart_rate")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected unknown field, got %v", err)
	}
}

func TestValidateCatchesBadProfile(t *testing.T) {
	p := DefaultProfile()
	p.HeightCm = 300
	err := p.Validate()
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Field != FieldHeight {
		t.Fatalf("expected height validation error, got %v", err)
	}
}
