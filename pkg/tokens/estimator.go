package tokens

// Estimate approximates the model-context cost of a text.
// The heuristic is ~4 characters per token, which is close enough for
// budget comparisons but not billing-accurate.
func Estimate(text string) int {
	return len(text) / 4
}
