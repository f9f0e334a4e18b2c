package youtube

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var channelIDPattern = regexp.MustCompile(`^UC[\w-]{22}$`)

// ResolveChannelID turns whatever the user pasted into a canonical UC...
// channel id. Accepted forms, tried in order:
//
//  1. a bare channel id
//  2. a /channel/UC... URL
//  3. an @handle, bare or inside a URL
//  4. anything else, as a search query
func (c *Client) ResolveChannelID(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("youtube: empty channel reference")
	}

	if channelIDPattern.MatchString(input) {
		return input, nil
	}

	if id := channelIDFromURL(input); id != "" {
		return id, nil
	}

	if handle := handleFrom(input); handle != "" {
		return c.searchChannel(ctx, "@"+handle)
	}

	// Custom /c/Name URLs and plain names fall through to search.
	if name := customNameFromURL(input); name != "" {
		input = name
	}
	return c.searchChannel(ctx, input)
}

// channelIDFromURL pulls the id out of a .../channel/UC... URL.
func channelIDFromURL(input string) string {
	idx := strings.Index(input, "/channel/")
	if idx < 0 {
		return ""
	}
	rest := input[idx+len("/channel/"):]
	if cut := strings.IndexAny(rest, "/?&#"); cut >= 0 {
		rest = rest[:cut]
	}
	if channelIDPattern.MatchString(rest) {
		return rest
	}
	return ""
}

// handleFrom extracts a handle from "@name" or a URL containing "/@name".
func handleFrom(input string) string {
	var handle string
	switch {
	case strings.HasPrefix(input, "@"):
		handle = input[1:]
	case strings.Contains(input, "/@"):
		handle = input[strings.Index(input, "/@")+2:]
	default:
		return ""
	}
	if cut := strings.IndexAny(handle, "/?&#"); cut >= 0 {
		handle = handle[:cut]
	}
	return strings.TrimSpace(handle)
}

// customNameFromURL extracts the trailing segment from /c/Name and /user/Name URLs.
func customNameFromURL(input string) string {
	for _, marker := range []string{"/c/", "/user/"} {
		idx := strings.Index(input, marker)
		if idx < 0 {
			continue
		}
		name := input[idx+len(marker):]
		if cut := strings.IndexAny(name, "/?&#"); cut >= 0 {
			name = name[:cut]
		}
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
		return strings.TrimSpace(name)
	}
	return ""
}

// searchChannel asks the data API for the closest channel match.
func (c *Client) searchChannel(ctx context.Context, query string) (string, error) {
	var result struct {
		Items []struct {
			ID struct {
				ChannelID string `json:"channelId"`
			} `json:"id"`
		} `json:"items"`
	}
	params := url.Values{
		"part":       {"snippet"},
		"type":       {"channel"},
		"maxResults": {"1"},
		"q":          {query},
	}
	if err := c.get(ctx, "search", params, &result); err != nil {
		return "", err
	}
	if len(result.Items) == 0 || result.Items[0].ID.ChannelID == "" {
		return "", ErrChannelNotFound
	}
	return result.Items[0].ID.ChannelID, nil
}
