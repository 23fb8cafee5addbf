package constants

// Strategy selects how a document is extracted. The first three run
// locally with no network; the rest delegate to the hosted model.
type Strategy string

// Stable values (store these exact strings in the history log).
const (
	StrategyAutomatic    Strategy = "Automatic"
	StrategyPattern      Strategy = "Pattern-based"
	StrategySection      Strategy = "Section-based"
	StrategyDirect       Strategy = "direct_extraction"
	StrategyHierarchical Strategy = "hierarchical_extraction"
	StrategySpecialized  Strategy = "specialized_extraction"
	StrategyMultiPass    Strategy = "multi_pass_extraction"
)

var allStrategies = []Strategy{
	StrategyAutomatic,
	StrategyPattern,
	StrategySection,
	StrategyDirect,
	StrategyHierarchical,
	StrategySpecialized,
	StrategyMultiPass,
}

// Strategies returns every selectable strategy name.
func Strategies() []string {
	out := make([]string, len(allStrategies))
	for i, s := range allStrategies {
		out[i] = string(s)
	}
	return out
}

// IsLocal reports whether the strategy runs without a model call.
func (s Strategy) IsLocal() bool {
	switch s {
	case StrategyAutomatic, StrategyPattern, StrategySection:
		return true
	}
	return false
}

// ParseStrategy canonicalizes a user-supplied strategy name.
func ParseStrategy(input string) (Strategy, bool) {
	for _, s := range allStrategies {
		if input == string(s) {
			return s, true
		}
	}
	return StrategyAutomatic, false
}
