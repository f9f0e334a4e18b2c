package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// TagSet is the structured result of the tag generator tool.
type TagSet struct {
	Primary       []string `json:"primary"`
	LSI           []string `json:"lsi"`
	LongTail      []string `json:"long_tail"`
	Trending      []string `json:"trending"`
	RelatedTopics []string `json:"related_topics"`
}

const maxTagsPerGroup = 15

var tagSetFallback = TagSet{
	Primary:       []string{"content creation", "creator tips", "grow your channel"},
	LSI:           []string{"audience growth", "video optimization"},
	LongTail:      []string{"how to grow on social media in 2026"},
	Trending:      []string{"creator economy"},
	RelatedTopics: []string{"content strategy", "personal branding"},
}

// Tags extracts a TagSet from generated text. It prefers an embedded JSON
// object, then falls back to scraping hashtags and comma lists, and as a
// last resort returns a canned set so the caller always has tags to show.
func Tags(text string) TagSet {
	if obj, ok := findJSONObject(text); ok {
		if ts, ok := tagsFromJSON(obj); ok {
			return ts
		}
	}
	scraped := hashtagPattern.FindAllString(text, -1)
	for i, h := range scraped {
		scraped[i] = strings.TrimPrefix(h, "#")
	}
	if len(scraped) == 0 {
		scraped = commaTokens(text)
	}
	if primary := dedupeCap(scraped, maxTagsPerGroup); len(primary) > 0 {
		return TagSet{Primary: primary}
	}
	return tagSetFallback
}

func tagsFromJSON(obj string) (TagSet, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return TagSet{}, false
	}
	ts := TagSet{
		Primary:       jsonGroup(raw, "primary", "primary_tags", "tags"),
		LSI:           jsonGroup(raw, "lsi", "lsi_tags", "lsi_keywords"),
		LongTail:      jsonGroup(raw, "long_tail", "longtail", "long_tail_tags"),
		Trending:      jsonGroup(raw, "trending", "trending_tags"),
		RelatedTopics: jsonGroup(raw, "related_topics", "related"),
	}
	if len(ts.Primary)+len(ts.LSI)+len(ts.LongTail)+len(ts.Trending)+len(ts.RelatedTopics) == 0 {
		return TagSet{}, false
	}
	return ts, true
}

// jsonGroup reads the first present key as a string slice, tolerating a
// single comma-joined string where the model ignored the array shape.
func jsonGroup(raw map[string]json.RawMessage, keys ...string) []string {
	for _, key := range keys {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(msg, &list); err == nil {
			return dedupeCap(list, maxTagsPerGroup)
		}
		var joined string
		if err := json.Unmarshal(msg, &joined); err == nil {
			return dedupeCap(commaTokens(joined), maxTagsPerGroup)
		}
	}
	return nil
}

var hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

const maxHashtags = 30

var hashtagFallback = []string{
	"#contentcreator", "#creatortips", "#growyouraudience",
	"#socialmediamarketing", "#viral",
}

// Hashtags extracts hashtag tokens from generated text, '#' included.
func Hashtags(text string) []string {
	tags := dedupeCap(hashtagPattern.FindAllString(text, -1), maxHashtags)
	if len(tags) == 0 {
		return hashtagFallback
	}
	return tags
}

func commaTokens(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, ",") {
			continue
		}
		for _, tok := range strings.Split(line, ",") {
			if tok = cleanLine(tok); tok != "" && len(tok) <= 60 {
				out = append(out, tok)
			}
		}
	}
	return out
}
