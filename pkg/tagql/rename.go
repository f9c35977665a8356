package tagql

import (
	"regexp"
)

// RenameRule rewrites tag names matching a pattern. It is a caller policy
// applied to a TagSet before evaluation; queries never reference it.
type RenameRule struct {
	re       *regexp.Regexp
	template string
}

// NewRenameRule compiles find with the same full-match semantics as query
// patterns. replace may reference capture groups as $1, $name or ${name}.
func NewRenameRule(find, replace string) (RenameRule, error) {
	re, err := compilePattern(find)
	if err != nil {
		return RenameRule{}, err
	}
	return RenameRule{re: re, template: replace}, nil
}

// Rename returns the new name for name and whether the rule applied.
func (r RenameRule) Rename(name string) (string, bool) {
	m := r.re.FindStringSubmatchIndex(name)
	if m == nil {
		return name, false
	}
	return string(r.re.ExpandString(nil, r.template, name, m)), true
}

// Apply returns a renamed copy of tags. Values are kept; tags is not
// modified.
func (r RenameRule) Apply(tags TagSet) TagSet {
	out := tags.Clone()
	for i := range out {
		out[i].Name, _ = r.Rename(out[i].Name)
	}
	return out
}

// ApplyRenames applies rules in order and returns the renamed copy.
func ApplyRenames(tags TagSet, rules ...RenameRule) TagSet {
	out := tags.Clone()
	for _, r := range rules {
		for i := range out {
			out[i].Name, _ = r.Rename(out[i].Name)
		}
	}
	return out
}
