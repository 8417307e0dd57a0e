package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/candidate-match/internal/types"
)

const headingSelector = "h1, h2, h3, h4"

// areaKeywords maps heading vocabulary to policy areas. Headings are matched
// on whole words, case-insensitively.
var areaKeywords = map[types.PolicyArea][]string{
	types.AreaEconomy:        {"economy", "economic", "jobs", "taxes", "tax", "wages", "budget"},
	types.AreaHealthcare:     {"healthcare", "health care", "health", "medicare", "medicaid"},
	types.AreaEducation:      {"education", "schools", "school", "students", "college"},
	types.AreaSecurity:       {"security", "public safety", "defense", "immigration", "crime", "police"},
	types.AreaEnvironment:    {"environment", "climate", "energy", "conservation"},
	types.AreaSocial:         {"social", "civil rights", "equality", "housing", "families"},
	types.AreaInfrastructure: {"infrastructure", "transportation", "transit", "roads", "broadband"},
}

// PageSections is the policy text found on one page, keyed by area.
type PageSections struct {
	Platform Platform
	Sections map[types.PolicyArea]string
}

// AreaForHeading returns the policy area a heading introduces. Areas are
// tried in canonical order so the result is stable.
func AreaForHeading(heading string) (types.PolicyArea, bool) {
	words := " " + strings.Join(strings.FieldsFunc(strings.ToLower(heading), func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}), " ") + " "

	for _, area := range types.PolicyAreas() {
		for _, kw := range areaKeywords[area] {
			if strings.Contains(words, " "+kw+" ") {
				return area, true
			}
		}
	}
	return "", false
}

// ExtractPositions splits a campaign issues page into per-area position
// text. Each heading naming a policy area starts a section that runs until
// the next heading. When an area appears under several headings the first
// non-empty section wins.
func ExtractPositions(html string) (*PageSections, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	platform := DetectPlatform(doc)
	content := selectContent(doc, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform))

	out := &PageSections{
		Platform: platform,
		Sections: make(map[types.PolicyArea]string),
	}
	content.Find(headingSelector).Each(func(_ int, heading *goquery.Selection) {
		area, ok := AreaForHeading(heading.Text())
		if !ok {
			return
		}
		if _, seen := out.Sections[area]; seen {
			return
		}
		if text := sectionText(heading); text != "" {
			out.Sections[area] = text
		}
	})
	return out, nil
}

// sectionText collects the text between heading and the next heading. When
// the heading is wrapped (e.g. in a header div) the wrapper's siblings are
// used instead.
func sectionText(heading *goquery.Selection) string {
	anchor := heading
	for anchor.Next().Length() == 0 && anchor.Parent().Length() > 0 && !anchor.Parent().Is("body") {
		anchor = anchor.Parent()
	}

	var parts []string
	anchor.NextAll().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Is(headingSelector) || s.Find(headingSelector).Length() > 0 {
			return false
		}
		if text := cleanWhitespace(s.Text()); text != "" {
			parts = append(parts, text)
		}
		return true
	})
	return strings.Join(parts, "\n")
}

// Positions converts extracted sections into catalog positions for
// candidateID, ordered by policy area.
func (p *PageSections) Positions(candidateID string) []types.PolicyPosition {
	positions := make([]types.PolicyPosition, 0, len(p.Sections))
	for _, area := range types.PolicyAreas() {
		text, ok := p.Sections[area]
		if !ok {
			continue
		}
		positions = append(positions, types.PolicyPosition{
			CandidateID: candidateID,
			PolicyArea:  area,
			Position:    text,
		})
	}
	return positions
}
