package constants

// Variant names a rate normalization preset.
type Variant string

const (
	// VariantSingleSide decodes count / population size.
	VariantSingleSide Variant = "single-side"

	// VariantEvaluation decodes count / population size / 10.
	VariantEvaluation Variant = "evaluation"
)

// Valid returns true if the variant is a recognized value.
func (v Variant) Valid() bool {
	switch v {
	case VariantSingleSide, VariantEvaluation:
		return true
	}
	return false
}

// RateScale returns the extra rate divisor of the variant.
// Unknown variants use the single-side scale.
func (v Variant) RateScale() float64 {
	if v == VariantEvaluation {
		return RateScaleEvaluation
	}
	return RateScaleSingleSide
}

// String returns the string representation of the variant.
func (v Variant) String() string {
	return string(v)
}
