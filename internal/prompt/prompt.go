// README: Prompt builder shared by all recommendation providers.
package prompt

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/sanitize"
)

// Style selects the phrasing variant. Both carry the same requirements and
// the same output template; only the decoration differs.
type Style int

const (
	// StyleMarkdown decorates headings with bold markers and fences the templates.
	StyleMarkdown Style = iota
	// StylePlain uses undecorated headings.
	StylePlain
)

const noPreferences = "No specific preferences"

type promptData struct {
	Location    string
	Ages        string
	Distance    string
	Date        string
	Time        string
	Preferences string
}

const body = `You are a family activity expert helping parents discover real, current activities for their children.

{{if md}}**Task:** Search the web for family-friendly activities happening in {{.Location}}, USA that match the following criteria.

**Requirements:**
{{else}}Search the web for family-friendly activities happening in {{.Location}}, USA that match the following criteria:

{{end}}{{item "Location:"}} {{.Location}}, USA and surrounding areas within {{.Distance}} miles
{{item "Children's Ages:"}} {{.Ages}} years old
{{item "Date:"}} {{.Date}}
{{item "Time:"}} {{.Time}}
{{item "Preferences:"}} {{.Preferences}}

{{b "Instructions:"}}
1. Use web search to find REAL, CURRENT activities - not hypothetical suggestions
2. Focus on activities actually happening during the specified time
3. Find a diverse mix including:
   - Local events (festivals, markets, workshops, performances, story times)
   - Standing venues (museums, parks, play spaces, libraries, entertainment centers)
   - Both free and paid options when possible
   - Indoor and outdoor options for variety

4. Ensure all activities are:
   - Age-appropriate for children ages {{.Ages}}
   - Actually available on {{.Date}} during {{.Time}}
   - Within {{.Distance}} miles of {{.Location}}, USA
   - Safe and family-friendly

5. Provide exactly {{b "5 recommendations"}}

{{b "Output Format:"}}
For each recommendation, provide:

1. {{b "Emoji:"}} A single relevant emoji that represents the activity type
2. {{b "Title:"}} The venue or event name with timing (e.g., "Museum Name - Sunday 10am-4pm")
3. {{b "Location:"}} Specific location or neighborhood name
4. {{b "Distance:"}} Approximate distance from {{.Location}} (e.g., "0.5 miles", "2 miles")
5. {{b "Description:"}} 2-4 sentences including:
   - What the activity is and what makes it special
   - Key practical details (e.g., "Free admission", "Open 10am-5pm")
   - Why it's great for kids of the specified ages

{{b "Format each recommendation EXACTLY as:"}}
{{fence}}[Emoji] **[Activity Title with Timing]**
📍 [Location Name] • [Distance]
[Description paragraph]
{{fence}}
{{b "Example:"}}
{{fence}}🎨 **Children's Art Workshop at SFMOMA - Saturday 2pm-4pm**
📍 San Francisco Museum of Modern Art • 0.3 miles
The San Francisco Museum of Modern Art hosts hands-on art workshops every Saturday afternoon specifically designed for kids ages 4-10. The free workshops let children create their own masterpieces inspired by current exhibitions. Perfect for creative kids who love getting messy with paint and exploring different art techniques.
{{fence}}
Please prioritize:
- Accuracy (verify activities are real and current via web search)
- Diversity (different types of activities, not all museums or all parks)
- Age-appropriateness (genuinely suitable for {{.Ages}})
- Practical usefulness (include enough detail for parents to make decisions)

Begin your web search now and provide 5 recommendations.`

var templates = map[Style]*template.Template{
	StyleMarkdown: mustParse(true),
	StylePlain:    mustParse(false),
}

func mustParse(markdown bool) *template.Template {
	funcs := template.FuncMap{
		"md": func() bool { return markdown },
		"b": func(s string) string {
			if markdown {
				return "**" + s + "**"
			}
			return s
		},
		"item": func(s string) string {
			if markdown {
				return "- **" + s + "**"
			}
			return s
		},
		// A fence occupies its own line in the markdown variant and vanishes
		// entirely in the plain one.
		"fence": func() string {
			if markdown {
				return "```\n"
			}
			return ""
		},
	}
	return template.Must(template.New("prompt").Funcs(funcs).Parse(body))
}

// Build renders the search prompt for c. The criteria are expected to have
// passed validation; an unparseable date is still reported as an error.
func Build(c activity.SearchCriteria, style Style) (string, error) {
	date, err := activity.FormatDateLong(c.Date)
	if err != nil {
		return "", err
	}

	prefs := noPreferences
	if strings.TrimSpace(c.Preferences) != "" {
		if s := sanitize.ForPrompt(c.Preferences); s != "" {
			prefs = s
		}
	}

	tmpl, ok := templates[style]
	if !ok {
		tmpl = templates[StylePlain]
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, promptData{
		Location:    c.Location(),
		Ages:        c.AgesText(),
		Distance:    c.DistanceText(),
		Date:        date,
		Time:        c.TimeSlot.Label(),
		Preferences: prefs,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
