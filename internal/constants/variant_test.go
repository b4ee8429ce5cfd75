package constants

import "testing"

func TestVariant_Valid(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		want    bool
	}{
		{
			name:    "single-side is valid",
			variant: VariantSingleSide,
			want:    true,
		},
		{
			name:    "evaluation is valid",
			variant: VariantEvaluation,
			want:    true,
		},
		{
			name:    "empty string is invalid",
			variant: Variant(""),
			want:    false,
		},
		{
			name:    "arbitrary string is invalid",
			variant: Variant("nest"),
			want:    false,
		},
		{
			name:    "uppercase is invalid",
			variant: Variant("EVALUATION"),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.variant.Valid(); got != tt.want {
				t.Errorf("Variant.Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariant_RateScale(t *testing.T) {
	tests := []struct {
		variant Variant
		want    float64
	}{
		{VariantSingleSide, 1},
		{VariantEvaluation, 10},
		{Variant("unknown"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			if got := tt.variant.RateScale(); got != tt.want {
				t.Errorf("RateScale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStimRange(t *testing.T) {
	if MaxStimStrength-MinStimStrength != 660 {
		t.Errorf("stimulus span = %v, want 660", MaxStimStrength-MinStimStrength)
	}
}
