package parser

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
)

const fiveBlocks = `Here are 5 family-friendly activities in Dublin, CA:

🎨 **Children's Art Workshop at SFMOMA - Saturday 2pm-4pm**
📍 San Francisco Museum of Modern Art • 0.3 miles
Hands-on art workshops for kids ages 4-10. Free with admission.

🌳 **Shannon Park Playground - All Day**
📍 Shannon Community Park • 1.2 miles
A shaded playground with a splash pad.

📚 **Story Time at Dublin Library - Saturday 10:30am**
📍 Dublin Public Library • 0.8 miles
Interactive story time with songs and crafts for toddlers and preschoolers.

⚽ **Youth Soccer Clinic - Saturday 9am-11am**
📍 Emerald Glen Park • 2 miles
Free introductory soccer clinic run by local coaches.

🎭 **Family Puppet Show - Saturday 1pm**
📍 Dublin Civic Center Theater • 0.5 miles
A 45-minute puppet show with a meet-the-puppeteer session afterwards.`

func TestParse_FiveWellFormedBlocks(t *testing.T) {
	got := Parse(fiveBlocks)
	want := []activity.Recommendation{
		{Emoji: "🎨", Title: "Children's Art Workshop at SFMOMA - Saturday 2pm-4pm", Location: "San Francisco Museum of Modern Art", Distance: "0.3 miles", Description: "Hands-on art workshops for kids ages 4-10. Free with admission."},
		{Emoji: "🌳", Title: "Shannon Park Playground - All Day", Location: "Shannon Community Park", Distance: "1.2 miles", Description: "A shaded playground with a splash pad."},
		{Emoji: "📚", Title: "Story Time at Dublin Library - Saturday 10:30am", Location: "Dublin Public Library", Distance: "0.8 miles", Description: "Interactive story time with songs and crafts for toddlers and preschoolers."},
		{Emoji: "⚽", Title: "Youth Soccer Clinic - Saturday 9am-11am", Location: "Emerald Glen Park", Distance: "2 miles", Description: "Free introductory soccer clinic run by local coaches."},
		{Emoji: "🎭", Title: "Family Puppet Show - Saturday 1pm", Location: "Dublin Civic Center Theater", Distance: "0.5 miles", Description: "A 45-minute puppet show with a meet-the-puppeteer session afterwards."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse() mismatch\n got: %#v\nwant: %#v", got, want)
	}
}

func block(i int) string {
	return fmt.Sprintf("🎈 **Activity %d - Sunday**\n📍 Venue %d • %d miles\nDescription for activity %d.\n", i, i, i, i)
}

func TestParse_FewerThanFive(t *testing.T) {
	text := block(1) + "\n" + block(2) + "\n" + block(3)
	got := Parse(text)
	if len(got) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(got))
	}
	for i, r := range got {
		if r.Title != fmt.Sprintf("Activity %d - Sunday", i+1) {
			t.Errorf("rec %d title = %q", i, r.Title)
		}
	}
}

func TestParse_MoreThanFiveKeepsFirstFive(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 7; i++ {
		b.WriteString(block(i))
		b.WriteString("\n")
	}
	got := Parse(b.String())
	if len(got) != activity.MaxRecommendations {
		t.Fatalf("expected %d, got %d", activity.MaxRecommendations, len(got))
	}
	if got[4].Location != "Venue 5" {
		t.Errorf("fifth rec location = %q, want Venue 5", got[4].Location)
	}
}

func TestParse_VariationSelectorKeptWithEmoji(t *testing.T) {
	text := "☀️ **Sunny Splash Pad - All Day**\n📍 Alamo Creek Park • 3 miles\nCool off in the fountains."
	got := Parse(text)
	if len(got) != 1 {
		t.Fatalf("expected 1, got %d", len(got))
	}
	if got[0].Emoji != "☀️" {
		t.Errorf("emoji = %q", got[0].Emoji)
	}
}

func TestParse_MultiParagraphDescription(t *testing.T) {
	text := "🎨 **Art Day**\n📍 Studio • 1 mile\nFirst paragraph.\n\nSecond paragraph.\n🌳 **Park**\n📍 Park • 2 miles\nRun."
	got := Parse(text)
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got[0].Description != "First paragraph.\n\nSecond paragraph." {
		t.Errorf("description = %q", got[0].Description)
	}
}

// A description line that starts with an emoji-range character is treated as
// the start of the next block, so the rest of that description is dropped.
func TestParse_EmojiLeadingDescriptionLineEndsBlock(t *testing.T) {
	text := "🎨 **Art Class - Sat 2pm**\n📍 Art Center • 1 mile\nGreat for kids.\n🎉 Free entry all day.\n\n🌳 **Park - All Day**\n📍 City Park • 2 miles\nOpen lawns."
	got := Parse(text)
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got[0].Description != "Great for kids." {
		t.Errorf("description = %q, want truncated at emoji line", got[0].Description)
	}
	if got[1].Title != "Park - All Day" {
		t.Errorf("second title = %q", got[1].Title)
	}
}

func TestParse_FallbackParagraphs(t *testing.T) {
	text := "🎨 **Art Afternoon** at the museum\nBring the kids for painting.\n\n" +
		"🌳 **Park Day** - Sunday\n📍 Central Park • 1 mile\nRun around and picnic.\n\n" +
		"🎪 **Circus** today\n📍 Fairgrounds • 3 miles\n\n" +
		"Just a note without emoji\nsecond line\n\n" +
		"🎲 **Single line only**"
	got := Parse(text)
	want := []activity.Recommendation{
		{Emoji: "🎨", Title: "Art Afternoon", Description: "Bring the kids for painting.", Location: Placeholder, Distance: Placeholder},
		{Emoji: "🌳", Title: "Park Day", Description: "Run around and picnic.", Location: "Central Park", Distance: "1 mile"},
		{Emoji: "🎪", Title: "Circus", Description: "📍 Fairgrounds • 3 miles", Location: "Fairgrounds", Distance: "3 miles"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fallback mismatch\n got: %#v\nwant: %#v", got, want)
	}
}

func TestParse_FallbackOnlyWhenPrimaryEmpty(t *testing.T) {
	text := block(1) + "\n🎨 **Loose Title** extra\nsome text"
	got := Parse(text)
	if len(got) != 1 {
		t.Fatalf("expected primary result only, got %d", len(got))
	}
}

func TestParse_NothingRecognised(t *testing.T) {
	for _, text := range []string{"", "I could not find any activities.", "**Bold** but no emoji\nline"} {
		if got := Parse(text); len(got) != 0 {
			t.Errorf("Parse(%q) = %d recs, want 0", text, len(got))
		}
	}
}

func TestParse_HeaderWithoutDescriptionIsDropped(t *testing.T) {
	text := "🎨 **Art Day**\n📍 Studio • 1 mile\n"
	if got := parseBlocks(text); len(got) != 0 {
		t.Fatalf("expected block without description to be dropped, got %#v", got)
	}
}

func TestParse_Idempotent(t *testing.T) {
	first := Parse(fiveBlocks)
	second := Parse(fiveBlocks)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("parsing the same text twice gave different results")
	}
}
