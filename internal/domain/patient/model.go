package patient

import "math"

// Gender is the set of accepted gender values.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Verdict categories derived from BMI.
const (
	VerdictUnderweight = "Underweight"
	VerdictNormal      = "Normal"
	VerdictOverweight  = "Overweight"
	VerdictObese       = "Obese"
)

// Fields is the per-patient payload as persisted in the collection document.
// The record id is the collection key, not a payload field. Field order here
// determines the order written to disk, so keep it stable.
type Fields struct {
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Age     int     `json:"age"`
	Gender  Gender  `json:"gender"`
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`
	BMI     float64 `json:"bmi"`
	Verdict string  `json:"verdict"`
}

// Record is a full patient entity: the id plus its payload. This is the shape
// bound from request bodies and mirrored to the database sink.
type Record struct {
	ID string `json:"id"`
	Fields
}

// Collection is the whole patient table keyed by record id.
type Collection map[string]Fields

// Update is a partial patch. Nil fields are left unchanged. BMI and verdict
// are never settable; they are recomputed after every merge.
type Update struct {
	Name   *string  `json:"name,omitempty"`
	City   *string  `json:"city,omitempty"`
	Age    *int     `json:"age,omitempty"`
	Gender *Gender  `json:"gender,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// Validate checks every field constraint and reports all violations at once.
func (r *Record) Validate() error {
	var v ValidationError
	if r.ID == "" {
		v.add("id", "must not be empty")
	}
	if r.Name == "" {
		v.add("name", "must not be empty")
	}
	if r.City == "" {
		v.add("city", "must not be empty")
	}
	if r.Age <= 0 || r.Age >= 120 {
		v.add("age", "must be between 1 and 119")
	}
	if !r.Gender.Valid() {
		v.add("gender", "must be one of male, female, other")
	}
	if r.Height <= 0 {
		v.add("height", "must be greater than 0")
	}
	if r.Weight <= 0 {
		v.add("weight", "must be greater than 0")
	}
	if len(v.Violations) > 0 {
		return &v
	}
	return nil
}

// Derive recomputes bmi and verdict from the current height and weight.
// Callers must have validated the record first.
func (r *Record) Derive() {
	r.BMI = math.Round(r.Weight/(r.Height*r.Height)*100) / 100
	r.Verdict = verdictFor(r.BMI)
}

// verdictFor maps a BMI value onto its health category. The thresholds are
// evaluated in order and leave [24.9, 25) mapping to Obese; that boundary is
// kept as-is for compatibility with existing stored data.
func verdictFor(bmi float64) string {
	switch {
	case bmi < 18.5:
		return VerdictUnderweight
	case bmi < 24.9:
		return VerdictNormal
	case bmi >= 25 && bmi < 30:
		return VerdictOverweight
	default:
		return VerdictObese
	}
}

// Apply overlays the non-nil patch fields on a copy of f and returns the
// merged payload. Derived fields are untouched here; the caller revalidates
// and recomputes them as if constructing a fresh record.
func (f Fields) Apply(u Update) Fields {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.City != nil {
		f.City = *u.City
	}
	if u.Age != nil {
		f.Age = *u.Age
	}
	if u.Gender != nil {
		f.Gender = *u.Gender
	}
	if u.Height != nil {
		f.Height = *u.Height
	}
	if u.Weight != nil {
		f.Weight = *u.Weight
	}
	return f
}
