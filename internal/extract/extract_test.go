package extract

import (
	"strconv"
	"strings"
	"testing"
)

func TestTagsFromJSON(t *testing.T) {
	text := "Here are your tags:\n{\"primary\":[\"vlog\",\"daily vlog\"],\"lsi\":[\"camera gear\"],\"long_tail\":[\"day in the life of a creator\"],\"trending\":[\"vlogmas\"],\"related_topics\":[\"storytelling\"]}\nEnjoy!"
	ts := Tags(text)
	if len(ts.Primary) != 2 || ts.Primary[0] != "vlog" {
		t.Fatalf("primary: %v", ts.Primary)
	}
	if len(ts.LSI) != 1 || ts.LSI[0] != "camera gear" {
		t.Fatalf("lsi: %v", ts.LSI)
	}
	if len(ts.LongTail) != 1 || len(ts.Trending) != 1 || len(ts.RelatedTopics) != 1 {
		t.Fatalf("unexpected groups: %+v", ts)
	}
}

func TestTagsFromHashtagsWhenJSONAbsent(t *testing.T) {
	ts := Tags("Try these: #vlog #daily_vlog #vlog #creator")
	want := []string{"vlog", "daily_vlog", "creator"}
	if len(ts.Primary) != len(want) {
		t.Fatalf("primary: %v", ts.Primary)
	}
	for i, w := range want {
		if ts.Primary[i] != w {
			t.Fatalf("primary[%d] = %q, want %q", i, ts.Primary[i], w)
		}
	}
}

func TestTagsFallbackOnGarbage(t *testing.T) {
	ts := Tags("!!! ??? ***")
	if len(ts.Primary) == 0 {
		t.Fatal("fallback tag set must be non-empty")
	}
}

func TestHashtagsDedupedAndCapped(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("#tag")
		b.WriteByte(byte('a' + i%26))
		b.WriteByte(' ')
	}
	tags := Hashtags(b.String())
	if len(tags) != 26 {
		t.Fatalf("got %d hashtags, want 26 unique", len(tags))
	}
	if tags[0] != "#taga" {
		t.Fatalf("first tag %q", tags[0])
	}
}

func TestHashtagsFallback(t *testing.T) {
	tags := Hashtags("no tags here at all")
	if len(tags) == 0 {
		t.Fatal("fallback hashtags must be non-empty")
	}
	for _, tag := range tags {
		if !strings.HasPrefix(tag, "#") {
			t.Fatalf("fallback tag %q missing # prefix", tag)
		}
	}
}

func TestIdeasNumberedList(t *testing.T) {
	text := "1. Morning routine speedrun\n- Hook: You won't believe step 3\n- Duration: 30s\n\n2. Desk setup tour\n- Hook: My desk cost less than your coffee habit\n- Duration: 45s\n"
	ideas := Ideas(text, "Hook", "Duration")
	if len(ideas) != 2 {
		t.Fatalf("got %d ideas: %+v", len(ideas), ideas)
	}
	if ideas[0].Title != "Morning routine speedrun" {
		t.Fatalf("title: %q", ideas[0].Title)
	}
	if ideas[0].Fields["Hook"] != "You won't believe step 3" {
		t.Fatalf("hook: %q", ideas[0].Fields["Hook"])
	}
	if ideas[1].Fields["Duration"] != "45s" {
		t.Fatalf("duration: %q", ideas[1].Fields["Duration"])
	}
}

func TestIdeasBlankLineBlocks(t *testing.T) {
	text := "Try a myth-busting short\n\nFilm a collab with a local creator\n"
	ideas := Ideas(text)
	if len(ideas) != 2 {
		t.Fatalf("got %d ideas: %+v", len(ideas), ideas)
	}
}

func TestIdeasFallbackOnEmptyInput(t *testing.T) {
	ideas := Ideas("   \n  \n")
	if len(ideas) == 0 {
		t.Fatal("fallback ideas must be non-empty")
	}
	for _, idea := range ideas {
		if idea.Title == "" {
			t.Fatal("fallback idea with empty title")
		}
	}
}

func TestScriptBracketHeaders(t *testing.T) {
	text := "[HOOK]\nThree seconds to grab them.\n[CONTENT]\nThe middle part.\nMore middle.\n[CTA]\nSubscribe now.\n"
	s := Script(text)
	if s.Hook != "Three seconds to grab them." {
		t.Fatalf("hook: %q", s.Hook)
	}
	if !strings.Contains(s.Content, "More middle.") {
		t.Fatalf("content: %q", s.Content)
	}
	if s.CTA != "Subscribe now." {
		t.Fatalf("cta: %q", s.CTA)
	}
}

func TestScriptColonHeadersInline(t *testing.T) {
	text := "Hook: Watch this before posting again\nContent: Do the thing properly\nCTA: Hit follow\n"
	s := Script(text)
	if s.Hook != "Watch this before posting again" {
		t.Fatalf("hook: %q", s.Hook)
	}
	if s.Content != "Do the thing properly" {
		t.Fatalf("content: %q", s.Content)
	}
	if s.CTA != "Hit follow" {
		t.Fatalf("cta: %q", s.CTA)
	}
}

func TestScriptHeaderlessTextBecomesContent(t *testing.T) {
	s := Script("Just a plain paragraph of script text.")
	if s.Content != "Just a plain paragraph of script text." {
		t.Fatalf("content: %q", s.Content)
	}
	if s.Hook == "" || s.CTA == "" {
		t.Fatal("missing sections must get stock copy")
	}
}

func TestScriptNeverReturnsEmptySections(t *testing.T) {
	s := Script("")
	if s.Hook == "" || s.Content == "" || s.CTA == "" {
		t.Fatalf("empty section in %+v", s)
	}
}

func TestStrategyFiveSections(t *testing.T) {
	text := "## Content Pillars\nEducation, entertainment, community.\n\n## Posting Schedule\nMon/Wed/Fri at 6pm.\n\n## Engagement Tactics\nReply fast.\n\n## Collaboration Ideas\nDuets with peers.\n\n## Growth Milestones\n10k in 90 days.\n"
	p := Strategy(text)
	if !strings.Contains(p.ContentPillars, "Education") {
		t.Fatalf("pillars: %q", p.ContentPillars)
	}
	if !strings.Contains(p.PostingSchedule, "6pm") {
		t.Fatalf("schedule: %q", p.PostingSchedule)
	}
	if !strings.Contains(p.GrowthMilestones, "10k") {
		t.Fatalf("milestones: %q", p.GrowthMilestones)
	}
}

func TestStrategyFillsMissingSections(t *testing.T) {
	p := Strategy("Posting Schedule: every day at noon")
	if p.PostingSchedule != "every day at noon" {
		t.Fatalf("schedule: %q", p.PostingSchedule)
	}
	if p.ContentPillars == "" || p.EngagementTactics == "" || p.CollaborationIdeas == "" || p.GrowthMilestones == "" {
		t.Fatalf("missing defaults in %+v", p)
	}
}

// The calendar contract: exactly 30 entries, days 1..30 in order, no
// empty fields, regardless of what the model produced.
func TestCalendarAlwaysThirtyDays(t *testing.T) {
	inputs := []string{
		"",
		"complete garbage with no structure",
		"Day 1\n- Type: Reel\n- Topic: Launch teaser\n- Purpose: Reach\n\nDay 2\n- Type: Post\n- Topic: Origin story\n- Purpose: Trust\n",
	}
	for _, input := range inputs {
		days := Calendar(input)
		if len(days) != 30 {
			t.Fatalf("input %q: got %d days", input, len(days))
		}
		for i, d := range days {
			if d.Day != i+1 {
				t.Fatalf("day %d numbered %d", i+1, d.Day)
			}
			if d.Type == "" || d.Topic == "" || d.Purpose == "" {
				t.Fatalf("day %d has empty field: %+v", d.Day, d)
			}
		}
	}
}

func TestCalendarKeepsParsedEntriesInOrder(t *testing.T) {
	text := "Day 3\n- Type: Reel\n- Topic: First parsed\n- Purpose: Reach\n\nDay 7\n- Type: Post\n- Topic: Second parsed\n- Purpose: Trust\n"
	days := Calendar(text)
	if days[0].Topic != "First parsed" || days[0].Day != 1 {
		t.Fatalf("day 1: %+v", days[0])
	}
	if days[1].Topic != "Second parsed" || days[1].Day != 2 {
		t.Fatalf("day 2: %+v", days[1])
	}
	if days[2].Topic == "" {
		t.Fatalf("day 3 not padded: %+v", days[2])
	}
}

func TestCalendarTruncatesBeyondThirty(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 40; i++ {
		b.WriteString("Day ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("\n- Type: Post\n- Topic: T\n- Purpose: P\n\n")
	}
	days := Calendar(b.String())
	if len(days) != 30 {
		t.Fatalf("got %d days", len(days))
	}
	if days[29].Day != 30 {
		t.Fatalf("last day numbered %d", days[29].Day)
	}
}
