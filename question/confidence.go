package question

import "math"

// EstimateConfidence computes the heuristic 0-100 confidence score for
// an extraction run from the number of questions found and the raw text
// volume. It is a cheap monotonic proxy for extraction trust, not a
// calibrated probability: each question adds 10 points up to 95, each
// 1000 characters adds one point up to 100, and the two signals are
// averaged. Zero questions always means zero confidence.
func EstimateConfidence(questionCount, textLen int) float64 {
	if questionCount <= 0 {
		return 0
	}
	countScore := math.Min(95, float64(questionCount)*10)
	volumeScore := math.Min(100, float64(textLen)/1000)
	return math.Round((countScore + volumeScore) / 2)
}
