package command

import "strings"

// MatchFirst evaluates rules in order against transcript and returns the
// index of the first matching rule together with its trimmed capture.
// It returns -1 when no rule matches.
func MatchFirst(rules []Rule, transcript string) (int, string) {
	for i, r := range rules {
		m := r.Pattern.FindStringSubmatch(transcript)
		if m == nil {
			continue
		}
		var param string
		if len(m) > 1 {
			param = strings.TrimSpace(m[1])
		}
		return i, param
	}
	return -1, ""
}

// Parse maps a transcript onto a command using the built-in grammar.
// The boolean is false when no rule matched; the returned command then has
// the Unrecognized action.
func Parse(transcript string) (Command, bool) {
	if strings.TrimSpace(transcript) == "" {
		return Command{Action: Unrecognized}, false
	}
	idx, param := MatchFirst(grammar, transcript)
	if idx < 0 {
		return Command{Action: Unrecognized}, false
	}
	return Command{Action: grammar[idx].Action, Param: param}, true
}
