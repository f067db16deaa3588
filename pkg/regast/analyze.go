package regast

import (
	"github.com/KromDaniel/regast/internal/analysis"
)

// AnalysisResult contains the structural labels and measurements of a pattern.
type AnalysisResult = analysis.Result

// Analyze parses input and reports its structure without executing it.
//
// Example:
//
//	result, err := regast.Analyze(`/(\w+)@(\w+)\.com/i`, regast.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.FeatureLabels) // ["Captures", "CharClass", "Quantifiers"]
//	fmt.Println(result.MinimumLength) // 7
func Analyze(input string, opts Options) (*AnalysisResult, error) {
	p, err := Parse(input, opts)
	if err != nil {
		return nil, err
	}
	return p.Analyze(), nil
}

// Analyze reports the structure of an already parsed pattern.
func (p *Pattern) Analyze() *AnalysisResult {
	return analysis.Analyze(p.Body, p.Root, p.groups, p.flags)
}
