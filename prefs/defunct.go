package prefs

// list of preference values that are no longer used.
var defunct = []string{
	"dumpwatch.legacyPollSeconds",
}

// returns true if string is in list of defunct values.
func isDefunct(s string) bool {
	for _, m := range defunct {
		if s == m {
			return true
		}
	}
	return false
}
