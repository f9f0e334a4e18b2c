package extract

// Idea is one entry produced by the list-style tools (reel ideas, story
// ideas, hooks, collab ideas). Fields holds tool-specific attributes the
// caller asked for, keyed by the label as it appeared in the prompt.
type Idea struct {
	Title  string            `json:"title"`
	Fields map[string]string `json:"fields,omitempty"`
}

var ideasFallback = []Idea{
	{Title: "Behind-the-scenes look at how you plan your content"},
	{Title: "Answer the question your audience asks most often"},
	{Title: "React to a trend in your niche and add your own take"},
}

// Ideas splits generated text into idea entries. Each requested label is
// looked up inside the entry's block; entries without a recognizable title
// are dropped. Returns a canned list when nothing usable was found.
func Ideas(text string, labels ...string) []Idea {
	var ideas []Idea
	for _, block := range splitBlocks(text) {
		title := firstLine(block)
		if title == "" {
			continue
		}
		idea := Idea{Title: title}
		for _, label := range labels {
			if v := labeledField(block, label); v != "" {
				if idea.Fields == nil {
					idea.Fields = make(map[string]string, len(labels))
				}
				idea.Fields[label] = v
			}
		}
		ideas = append(ideas, idea)
	}
	if len(ideas) == 0 {
		return ideasFallback
	}
	return ideas
}
