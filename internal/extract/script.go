package extract

import (
	"regexp"
	"strings"
)

// ScriptSections is the structured result of the script writer tool.
type ScriptSections struct {
	Hook    string `json:"hook"`
	Content string `json:"content"`
	CTA     string `json:"cta"`
}

// StrategyPlan is the structured result of the growth strategy tool.
type StrategyPlan struct {
	ContentPillars     string `json:"content_pillars"`
	PostingSchedule    string `json:"posting_schedule"`
	EngagementTactics  string `json:"engagement_tactics"`
	CollaborationIdeas string `json:"collaboration_ideas"`
	GrowthMilestones   string `json:"growth_milestones"`
}

var scriptDefaults = ScriptSections{
	Hook:    "Stop scrolling. The next 30 seconds will change how you make content.",
	Content: "Walk your viewers through the one thing you wish you knew when you started, with a concrete example they can copy today.",
	CTA:     "Follow for more creator tips and tell me in the comments what you want covered next.",
}

// Script splits generated text into hook/content/CTA sections using either
// bracketed or colon-style headers. Missing sections get stock copy; the
// whole text becomes Content when no headers were found at all.
func Script(text string) ScriptSections {
	sections := splitSections(text,
		[]string{"hook"},
		[]string{"content", "script", "body", "main"},
		[]string{"cta", "call to action"},
	)
	s := ScriptSections{Hook: sections[0], Content: sections[1], CTA: sections[2]}
	if s.Hook == "" && s.Content == "" && s.CTA == "" {
		if body := strings.TrimSpace(text); body != "" {
			s.Content = body
		}
	}
	if s.Hook == "" {
		s.Hook = scriptDefaults.Hook
	}
	if s.Content == "" {
		s.Content = scriptDefaults.Content
	}
	if s.CTA == "" {
		s.CTA = scriptDefaults.CTA
	}
	return s
}

var strategyDefaults = StrategyPlan{
	ContentPillars:     "Pick three recurring themes your audience already engages with and rotate them weekly.",
	PostingSchedule:    "Post three times a week at consistent times; consistency beats volume.",
	EngagementTactics:  "Reply to every comment in the first hour and end each post with a question.",
	CollaborationIdeas: "Partner with creators one tier above you in an adjacent niche for shared formats.",
	GrowthMilestones:   "Set 30/60/90-day follower and watch-time targets and review them weekly.",
}

// Strategy splits generated text into the five growth plan sections.
// Every section is guaranteed non-empty.
func Strategy(text string) StrategyPlan {
	sections := splitSections(text,
		[]string{"content pillars", "pillars"},
		[]string{"posting schedule", "schedule"},
		[]string{"engagement tactics", "engagement"},
		[]string{"collaboration ideas", "collaboration", "collabs"},
		[]string{"growth milestones", "milestones"},
	)
	p := StrategyPlan{
		ContentPillars:     sections[0],
		PostingSchedule:    sections[1],
		EngagementTactics:  sections[2],
		CollaborationIdeas: sections[3],
		GrowthMilestones:   sections[4],
	}
	if p.ContentPillars == "" {
		p.ContentPillars = strategyDefaults.ContentPillars
	}
	if p.PostingSchedule == "" {
		p.PostingSchedule = strategyDefaults.PostingSchedule
	}
	if p.EngagementTactics == "" {
		p.EngagementTactics = strategyDefaults.EngagementTactics
	}
	if p.CollaborationIdeas == "" {
		p.CollaborationIdeas = strategyDefaults.CollaborationIdeas
	}
	if p.GrowthMilestones == "" {
		p.GrowthMilestones = strategyDefaults.GrowthMilestones
	}
	return p
}

type sectionSpan struct {
	index int
	start int
}

// splitSections locates each section's header in text and returns the body
// between it and the next header. Headers match "[Hook]", "## Hook",
// "Hook:" and similar forms, case-insensitively. A section whose header
// never appears yields "".
func splitSections(text string, sections ...[]string) []string {
	var spans []sectionSpan
	for i, aliases := range sections {
		best := -1
		for _, alias := range aliases {
			re := regexp.MustCompile(`(?im)^\s*(?:\[\s*` + regexp.QuoteMeta(alias) + `\s*\]|#{0,4}\s*(?:\*\*)?\s*(?:\d+[.)]\s*)?` + regexp.QuoteMeta(alias) + `(?:\*\*)?\s*:?)\s*$|(?im)^\s*(?:\*\*)?` + regexp.QuoteMeta(alias) + `(?:\*\*)?\s*:`)
			if loc := re.FindStringIndex(text); loc != nil && (best < 0 || loc[0] < best) {
				best = loc[0]
			}
		}
		if best >= 0 {
			spans = append(spans, sectionSpan{index: i, start: best})
		}
	}

	out := make([]string, len(sections))
	for _, span := range spans {
		end := len(text)
		for _, other := range spans {
			if other.start > span.start && other.start < end {
				end = other.start
			}
		}
		body := text[span.start:end]
		firstLine := body
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			firstLine = body[:nl]
		}
		// "Hook: ..." keeps the inline remainder; bracketed and markdown
		// headers occupy the whole line and are dropped.
		if colon := strings.IndexByte(firstLine, ':'); colon >= 0 && strings.TrimSpace(firstLine[colon+1:]) != "" {
			body = body[colon+1:]
		} else if len(firstLine) == len(body) {
			body = ""
		} else {
			body = body[len(firstLine)+1:]
		}
		out[span.index] = strings.TrimSpace(body)
	}
	return out
}
