// ABOUTME: Catalog holds the questionnaire, axis configuration and personality type table
// ABOUTME: Loaded from YAML and validated for completeness before use
package personality

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/2jang/Pawsonality/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the immutable quiz configuration
type Catalog struct {
	axes      []models.Axis
	questions []models.Question
	types     map[string]models.PersonalityType
	order     []string
}

type catalogFile struct {
	Axes      []models.Axis            `yaml:"axes"`
	Questions []models.Question        `yaml:"questions"`
	Types     []models.PersonalityType `yaml:"types"`
}

// Default returns the catalog bundled with the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the bundled catalog when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(f.Axes, f.Questions, f.Types)
}

// New validates the parts and builds a Catalog
func New(axes []models.Axis, questions []models.Question, types []models.PersonalityType) (*Catalog, error) {
	if err := validateAxes(axes); err != nil {
		return nil, err
	}
	if err := validateQuestions(questions, axes); err != nil {
		return nil, err
	}

	c := &Catalog{
		axes:      append([]models.Axis(nil), axes...),
		questions: append([]models.Question(nil), questions...),
		types:     make(map[string]models.PersonalityType, len(types)),
	}

	for _, pt := range types {
		code := strings.ToUpper(pt.Code)
		if _, dup := c.types[code]; dup {
			return nil, fmt.Errorf("catalog: duplicate type code %s", code)
		}
		if !codeFitsAxes(code, axes) {
			return nil, fmt.Errorf("catalog: type code %s does not fit the axis alphabets", code)
		}
		pt.Code = code
		c.types[code] = pt
		c.order = append(c.order, code)
	}

	for _, code := range AllCodes(axes) {
		if _, ok := c.types[code]; !ok {
			return nil, fmt.Errorf("catalog: %w: no entry for reachable code %s", models.ErrUnknownType, code)
		}
	}

	for _, code := range c.order {
		pt := c.types[code]
		for _, m := range append(append([]string(nil), pt.BestMatches...), pt.GoodMatches...) {
			if _, ok := c.types[strings.ToUpper(m)]; !ok {
				return nil, fmt.Errorf("catalog: type %s lists unknown match %s", code, m)
			}
		}
	}

	return c, nil
}

func validateAxes(axes []models.Axis) error {
	if len(axes) == 0 {
		return fmt.Errorf("catalog: at least one axis is required")
	}
	seen := make(map[string]bool, len(axes))
	for _, ax := range axes {
		if ax.Key == "" {
			return fmt.Errorf("catalog: axis key cannot be empty")
		}
		if seen[ax.Key] {
			return fmt.Errorf("catalog: duplicate axis %s", ax.Key)
		}
		seen[ax.Key] = true
		if utf8.RuneCountInString(ax.ALetter) != 1 || utf8.RuneCountInString(ax.BLetter) != 1 {
			return fmt.Errorf("catalog: axis %s letters must be single characters", ax.Key)
		}
		if ax.ALetter == ax.BLetter {
			return fmt.Errorf("catalog: axis %s uses %s for both options", ax.Key, ax.ALetter)
		}
		if t := ax.TieLetter(); t != ax.ALetter && t != ax.BLetter {
			return fmt.Errorf("catalog: axis %s tie letter %s is not in its alphabet", ax.Key, t)
		}
	}
	return nil
}

func validateQuestions(questions []models.Question, axes []models.Axis) error {
	if len(questions) == 0 {
		return fmt.Errorf("catalog: at least one question is required")
	}
	perAxis := make(map[string]int, len(axes))
	for _, ax := range axes {
		perAxis[ax.Key] = 0
	}
	ids := make(map[int]bool, len(questions))
	for _, q := range questions {
		if ids[q.ID] {
			return fmt.Errorf("catalog: duplicate question id %d", q.ID)
		}
		ids[q.ID] = true
		if strings.TrimSpace(q.OptionA) == "" || strings.TrimSpace(q.OptionB) == "" {
			return fmt.Errorf("catalog: question %d needs both options", q.ID)
		}
		if _, ok := perAxis[q.Axis]; !ok {
			return fmt.Errorf("catalog: question %d references unknown axis %q", q.ID, q.Axis)
		}
		perAxis[q.Axis]++
	}
	for _, ax := range axes {
		if perAxis[ax.Key] == 0 {
			return fmt.Errorf("catalog: axis %s has no questions", ax.Key)
		}
	}
	return nil
}

func codeFitsAxes(code string, axes []models.Axis) bool {
	letters := []rune(code)
	if len(letters) != len(axes) {
		return false
	}
	for i, ax := range axes {
		l := string(letters[i])
		if l != ax.ALetter && l != ax.BLetter {
			return false
		}
	}
	return true
}

// AllCodes enumerates every code reachable from the axis alphabets
func AllCodes(axes []models.Axis) []string {
	codes := []string{""}
	for _, ax := range axes {
		next := make([]string, 0, len(codes)*2)
		for _, prefix := range codes {
			next = append(next, prefix+ax.ALetter, prefix+ax.BLetter)
		}
		codes = next
	}
	return codes
}

// Axes returns the ordered axis configuration
func (c *Catalog) Axes() []models.Axis {
	return append([]models.Axis(nil), c.axes...)
}

// Questions returns the questions in stable id order as configured
func (c *Catalog) Questions() []models.Question {
	return append([]models.Question(nil), c.questions...)
}

// Types returns every personality type in catalog order
func (c *Catalog) Types() []models.PersonalityType {
	out := make([]models.PersonalityType, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.types[code])
	}
	return out
}

// Type looks up a personality type by code, case-insensitively
func (c *Catalog) Type(code string) (models.PersonalityType, bool) {
	pt, ok := c.types[strings.ToUpper(strings.TrimSpace(code))]
	return pt, ok
}

// Matches resolves the best and good compatibility lists for a code
func (c *Catalog) Matches(code string) (best, good []models.PersonalityType, err error) {
	pt, ok := c.Type(code)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", models.ErrUnknownType, code)
	}
	for _, m := range pt.BestMatches {
		best = append(best, c.types[strings.ToUpper(m)])
	}
	for _, m := range pt.GoodMatches {
		good = append(good, c.types[strings.ToUpper(m)])
	}
	return best, good, nil
}

// Classify scores a submission and verifies the code exists in the type table
func (c *Catalog) Classify(sub models.Submission) (string, error) {
	code, err := Score(sub, c.questions, c.axes)
	if err != nil {
		return "", err
	}
	if _, ok := c.types[code]; !ok {
		return "", fmt.Errorf("%w: %s", models.ErrUnknownType, code)
	}
	return code, nil
}

// Result classifies a submission and returns the resolved type details
func (c *Catalog) Result(sub models.Submission) (models.Result, error) {
	code, err := c.Classify(sub)
	if err != nil {
		return models.Result{}, err
	}
	return models.NewResult(c.types[code]), nil
}
