package theme

import "regexp"

var varUsageRegex = regexp.MustCompile(`\$\{(.+?)\}`)

// deferredVariables are substituted per platform row when rendering, not
// while loading.
var deferredVariables = map[string]bool{
	"system.name":     true,
	"system.theme":    true,
	"system.fullName": true,
}

// Variables is the variable table of one platform. Later definitions win.
type Variables map[string]string

// collect reads every flat key/text child of the <variables> blocks of a
// document. Children with empty text are skipped.
func (v Variables) collect(root *node) {
	for _, block := range root.all("variables") {
		for _, c := range block.children {
			if text := c.trimmedText(); text != "" {
				v[c.tag] = text
			}
		}
	}
}

// Substitute replaces ${key} placeholders. Deferred keys are kept verbatim,
// unknown keys become empty. Substituted values are not scanned again.
func (v Variables) Substitute(text string) string {
	return varUsageRegex.ReplaceAllStringFunc(text, func(match string) string {
		key := match[2 : len(match)-1]
		if deferredVariables[key] {
			return match
		}
		return v[key]
	})
}
