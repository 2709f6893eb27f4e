package screening

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/jonathan/jobboard/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed rubric.yaml
var defaultRubricYAML []byte

// criteriaPerStage is the number of checklist items every stage carries.
const criteriaPerStage = 5

// Criterion is one weighted checklist item.
type Criterion struct {
	Key    string `yaml:"key" json:"key"`
	Label  string `yaml:"label" json:"label"`
	Weight int    `yaml:"weight" json:"weight"`
}

// Rubric holds the suggestion checklist for every stage.
type Rubric struct {
	Stages map[types.Stage][]Criterion `yaml:"stages" json:"stages"`
}

// DefaultRubric parses the embedded rubric.
func DefaultRubric() (*Rubric, error) {
	return ParseRubric(defaultRubricYAML)
}

// ParseRubric parses and validates a YAML rubric.
func ParseRubric(data []byte) (*Rubric, error) {
	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, &Error{Message: "failed to parse rubric", Cause: err}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks that every stage has five uniquely keyed criteria whose
// weights sum to 100, and that no unknown stage is present.
func (r *Rubric) Validate() error {
	for stage := range r.Stages {
		if !stage.IsValid() {
			return &Error{Message: fmt.Sprintf("rubric has unknown stage %q", stage)}
		}
	}
	for _, stage := range types.Stages {
		criteria, ok := r.Stages[stage]
		if !ok {
			return &Error{Message: fmt.Sprintf("rubric is missing stage %q", stage)}
		}
		if len(criteria) != criteriaPerStage {
			return &Error{Message: fmt.Sprintf("rubric stage %q has %d criteria, want %d", stage, len(criteria), criteriaPerStage)}
		}
		seen := make(map[string]bool, len(criteria))
		sum := 0
		for _, c := range criteria {
			if c.Key == "" || seen[c.Key] {
				return &Error{Message: fmt.Sprintf("rubric stage %q has empty or duplicate key %q", stage, c.Key)}
			}
			if c.Weight <= 0 {
				return &Error{Message: fmt.Sprintf("rubric criterion %q must have a positive weight", c.Key)}
			}
			seen[c.Key] = true
			sum += c.Weight
		}
		if sum != 100 {
			return &Error{Message: fmt.Sprintf("rubric stage %q weights sum to %d, want 100", stage, sum)}
		}
	}
	return nil
}

// Suggest converts checked criteria into an advisory score: the checked
// weight as a percentage of the stage maximum, rounded to the nearest
// multiple of 5 and clamped to [0, 100].
func (r *Rubric) Suggest(stage types.Stage, checked []string) (*types.ScoreSuggestion, error) {
	criteria, ok := r.Stages[stage]
	if !ok {
		return nil, &types.ValidationError{Field: "stage", Message: "invalid stage"}
	}

	known := make(map[string]bool, len(criteria))
	for _, c := range criteria {
		known[c.Key] = true
	}
	isChecked := make(map[string]bool, len(checked))
	for _, key := range checked {
		if !known[key] {
			return nil, &types.ValidationError{Field: "checked", Message: fmt.Sprintf("unknown criterion %q for stage %s", key, stage)}
		}
		isChecked[key] = true
	}

	points, maxPoints := 0, 0
	breakdown := make([]string, 0, len(criteria))
	keys := make([]string, 0, len(isChecked))
	for _, c := range criteria {
		got := 0
		if isChecked[c.Key] {
			got = c.Weight
			keys = append(keys, c.Key)
		}
		points += got
		maxPoints += c.Weight
		breakdown = append(breakdown, fmt.Sprintf("%s: %d/%d", c.Label, got, c.Weight))
	}

	pct := 0.0
	if maxPoints > 0 {
		pct = float64(points) / float64(maxPoints) * 100
	}
	score := int(math.Round(pct/5)) * 5
	score = max(0, min(100, score))

	return &types.ScoreSuggestion{
		Stage:     stage,
		Points:    points,
		MaxPoints: maxPoints,
		Score:     score,
		Checked:   keys,
		Breakdown: breakdown,
	}, nil
}
