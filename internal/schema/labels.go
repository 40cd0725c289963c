package schema

import (
	"fmt"
	"strings"

	"github.com/waozixyz/esqml/internal/cascade"
)

const labelView = "detailed"

// labelOrder is the metadata label grid of the detailed view: two columns of
// four, top to bottom.
var labelOrder = []string{
	"md_lbl_rating",
	"md_lbl_releasedate",
	"md_lbl_developer",
	"md_lbl_publisher",
	"md_lbl_genre",
	"md_lbl_players",
	"md_lbl_lastplayed",
	"md_lbl_playcount",
}

// labelRules places every label below the previous one and every value to
// the right of its label.
func (r *Registry) labelRules() []cascade.Rule {
	var rules []cascade.Rule
	key := func(name string) cascade.Key {
		kind, _ := r.Reserved(labelView, name)
		return cascade.Key{View: labelView, Kind: kind, Name: name}
	}

	firstY := "0.625 * root.height"
	for idx, label := range labelOrder {
		var x, y string
		switch {
		case idx == 0:
			x, y = "0.01 * root.width", firstY
		case idx == len(labelOrder)/2:
			x, y = "0.25 * root.width", firstY
		default:
			prev := labelOrder[idx-1]
			x, y = prev+".x", fmt.Sprintf("%s.y + %s.height", prev, prev)
		}
		rules = append(rules, cascade.Rule{Key: key(label), Props: cascade.Props{
			"font.pixelSize": "0.035 * root.height",
			"x":              x,
			"y":              y,
		}})
	}

	for _, label := range labelOrder {
		value := strings.Replace(label, "_lbl", "", 1)
		kind, ok := r.Reserved(labelView, value)
		if !ok {
			continue
		}
		p := cascade.Props{
			"x": fmt.Sprintf("%s.x + %s.width", label, label),
			"y": label + ".y",
		}
		if kind == "rating" {
			p["height"] = label + ".font.pixelSize"
		} else {
			p["height"] = label + ".height"
			p["width"] = "0.24 * root.width - " + label + ".width"
			p["font.pixelSize"] = label + ".font.pixelSize"
			p["elide"] = "Text.ElideRight"
		}
		rules = append(rules, cascade.Rule{Key: key(value), Props: p})
	}

	last := labelOrder[len(labelOrder)-1]
	rules = append(rules, cascade.Rule{
		Key:   key("md_description"),
		Props: cascade.Props{"y": fmt.Sprintf("%s.y + %s.height + 0.01 * root.height", last, last)},
	})
	return rules
}
