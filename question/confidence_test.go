package question

import "testing"

// ---------------------------------------------------------------------------
// Confidence estimation tests
// ---------------------------------------------------------------------------

func TestEstimateConfidence(t *testing.T) {
	tests := []struct {
		name  string
		count int
		len   int
		want  float64
	}{
		{"zero_questions", 0, 50000, 0},
		{"negative_count", -3, 1000, 0},
		{"one_question_no_text", 1, 0, 5},
		{"five_questions_10k", 5, 10000, 30},
		{"count_capped_at_95", 50, 0, 48}, // round((95+0)/2)
		{"volume_capped_at_100", 1, 1_000_000, 55},
		{"both_capped", 100, 500_000, 98}, // round((95+100)/2)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateConfidence(tt.count, tt.len); got != tt.want {
				t.Errorf("EstimateConfidence(%d, %d) = %v, want %v",
					tt.count, tt.len, got, tt.want)
			}
		})
	}
}

// More questions or more text never lowers the score.
func TestEstimateConfidenceMonotonic(t *testing.T) {
	for count := 1; count < 20; count++ {
		if EstimateConfidence(count+1, 5000) < EstimateConfidence(count, 5000) {
			t.Fatalf("confidence decreased when count rose from %d to %d", count, count+1)
		}
	}
	for length := 0; length < 200_000; length += 10_000 {
		if EstimateConfidence(3, length+10_000) < EstimateConfidence(3, length) {
			t.Fatalf("confidence decreased when text length rose from %d", length)
		}
	}
}

func TestEstimateConfidenceRange(t *testing.T) {
	for _, count := range []int{0, 1, 7, 1000} {
		for _, length := range []int{0, 999, 100_000, 10_000_000} {
			got := EstimateConfidence(count, length)
			if got < 0 || got > 100 {
				t.Errorf("EstimateConfidence(%d, %d) = %v, outside [0,100]", count, length, got)
			}
		}
	}
}
