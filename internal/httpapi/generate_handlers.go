package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"creatorlabs.app/internal/access"
	"creatorlabs.app/internal/content"
	"creatorlabs.app/internal/extract"
	"creatorlabs.app/internal/genai"
	"creatorlabs.app/internal/obs"
	"creatorlabs.app/internal/stream"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
	Niche  string `json:"niche,omitempty"`
	Topic  string `json:"topic,omitempty"`
}

type engagementRequest struct {
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
	Shares    int64 `json:"shares"`
}

// systemPrompts steer each tool's generation.
var systemPrompts = map[string]string{
	access.ToolTagGenerator:     "You generate video tags. Answer with a JSON object with keys primary, lsi, long_tail, trending, related_topics, each a list of strings.",
	access.ToolCaptionGenerator: "You write short, punchy social media captions.",
	access.ToolScriptWriter:     "You write short-form video scripts. Use the section headers [HOOK], [CONTENT] and [CTA].",
	access.ToolHashtagGenerator: "You produce hashtag lists. Answer with hashtags only, space separated.",
	access.ToolHookGenerator:    "You write scroll-stopping opening lines. Answer as a numbered list.",
	access.ToolReelIdeas:        "You propose short video ideas. Answer as a numbered list; for each idea add 'Hook:' and 'Duration:' lines.",
	access.ToolStoryIdeas:       "You propose story post ideas. Answer as a numbered list.",
	access.ToolCollabIdeas:      "You propose collaboration ideas. Answer as a numbered list; for each idea add a 'Partner type:' line.",
	access.ToolGrowthStrategy:   "You design growth plans. Use the section headers Content Pillars, Posting Schedule, Engagement Tactics, Collaboration Ideas and Growth Milestones.",
	access.ToolContentCalendar:  "You plan 30-day content calendars. Answer with Day 1..Day 30 blocks, each with 'Type:', 'Topic:' and 'Purpose:' lines.",
}

// handleTools routes /v1/tools/{tool}/generate.
func (a *API) handleTools(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/tools/")
	tool, op, found := strings.Cut(rest, "/")
	if !found || op != "generate" || tool == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !access.ValidTool(tool) {
		writeError(w, r, http.StatusNotFound, "unknown tool")
		return
	}

	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	if !a.allowTool(w, r, identity, tool) {
		return
	}

	if tool == access.ToolEngagementCalc {
		a.engagementCalc(w, r, identity)
		return
	}
	a.generate(w, r, identity, tool)
}

// allowTool runs the evaluator gate. Denials are a bare 403: the web app
// hides the section rather than surfacing an error.
func (a *API) allowTool(w http.ResponseWriter, r *http.Request, identity access.Identity, tool string) bool {
	eval, err := a.access.EvaluatorFor(r.Context(), identity)
	if err != nil {
		a.audit(r.Context(), "access.read.degraded", "user", identity.UserID, map[string]string{
			"error": err.Error(),
		})
	}
	if !eval.CanUse(tool) {
		writeJSON(w, http.StatusForbidden, map[string]any{})
		return false
	}
	return true
}

// generate streams deltas from the gateway to the client as SSE, then a
// structured result frame extracted from the full text, then the sentinel.
func (a *API) generate(w http.ResponseWriter, r *http.Request, identity access.Identity, tool string) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = strings.TrimSpace(strings.Join([]string{req.Niche, req.Topic}, " "))
	}
	if prompt == "" {
		writeError(w, r, http.StatusBadRequest, "prompt is required")
		return
	}

	start := time.Now()
	gstream, err := a.gen.Generate(r.Context(), genai.RequestKey(identity.UserID, tool), genai.Request{
		System: systemPrompts[tool],
		Prompt: prompt,
	})
	if err != nil {
		obs.ObserveGeneration(tool, outcomeFor(err), 0)
		handleGenerateError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var full strings.Builder
	for gstream.Next() {
		delta := gstream.Current()
		full.WriteString(delta)
		writeFrame(w, map[string]any{"delta": delta})
		flusher.Flush()
	}
	if err := gstream.Err(); err != nil {
		// Headers are gone; report in-band and terminate the stream.
		obs.ObserveGeneration(tool, outcomeFor(err), 0)
		writeFrame(w, map[string]any{"error": "generation interrupted"})
		writeSentinel(w)
		flusher.Flush()
		return
	}

	result := a.extractResult(r, identity, tool, full.String())
	writeFrame(w, map[string]any{"result": result})
	writeSentinel(w)
	flusher.Flush()

	obs.ObserveGeneration(tool, "ok", time.Since(start))
	a.recordGeneration(r, identity, tool)
}

// extractResult dispatches the per-tool extractor. Every branch returns a
// non-empty structure even on garbage input.
func (a *API) extractResult(r *http.Request, identity access.Identity, tool, text string) any {
	switch tool {
	case access.ToolTagGenerator:
		return extract.Tags(text)
	case access.ToolHashtagGenerator:
		return map[string]any{"hashtags": extract.Hashtags(text)}
	case access.ToolScriptWriter:
		return extract.Script(text)
	case access.ToolGrowthStrategy:
		return extract.Strategy(text)
	case access.ToolContentCalendar:
		days := extract.Calendar(text)
		if a.content != nil {
			entries := make([]content.CalendarEntry, len(days))
			for i, d := range days {
				entries[i] = content.CalendarEntry{Day: d.Day, Type: d.Type, Topic: d.Topic, Purpose: d.Purpose}
			}
			if err := a.content.SaveCalendar(r.Context(), identity.UserID, entries); err != nil {
				a.audit(r.Context(), "calendar.save.failed", "user", identity.UserID, map[string]string{
					"error": err.Error(),
				})
			}
		}
		return map[string]any{"days": days}
	case access.ToolReelIdeas:
		return map[string]any{"ideas": extract.Ideas(text, "Hook", "Duration")}
	case access.ToolCollabIdeas:
		return map[string]any{"ideas": extract.Ideas(text, "Partner type")}
	case access.ToolHookGenerator, access.ToolStoryIdeas:
		return map[string]any{"ideas": extract.Ideas(text)}
	default:
		return map[string]any{"text": strings.TrimSpace(text)}
	}
}

// engagementCalc is computed locally; no gateway round trip.
func (a *API) engagementCalc(w http.ResponseWriter, r *http.Request, identity access.Identity) {
	var req engagementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Followers <= 0 {
		writeError(w, r, http.StatusBadRequest, "followers must be > 0")
		return
	}
	if req.Likes < 0 || req.Comments < 0 || req.Shares < 0 {
		writeError(w, r, http.StatusBadRequest, "interaction counts cannot be negative")
		return
	}

	interactions := req.Likes + req.Comments + req.Shares
	ratePct := float64(interactions) / float64(req.Followers) * 100

	verdict := "low"
	switch {
	case ratePct >= 6:
		verdict = "excellent"
	case ratePct >= 3:
		verdict = "good"
	case ratePct >= 1:
		verdict = "average"
	}

	a.recordGeneration(r, identity, access.ToolEngagementCalc)
	writeJSON(w, http.StatusOK, map[string]any{
		"interactions":    interactions,
		"engagement_rate": fmt.Sprintf("%.2f", ratePct),
		"verdict":         verdict,
	})
}

// handleChannelInspect resolves and inspects a YouTube channel reference.
func (a *API) handleChannelInspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	if !a.allowTool(w, r, identity, access.ToolChannelInspector) {
		return
	}
	if a.yt == nil {
		writeError(w, r, http.StatusServiceUnavailable, "channel inspection disabled")
		return
	}

	var req struct {
		Channel string `json:"channel"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := a.yt.Inspect(r.Context(), req.Channel)
	if err != nil {
		if strings.TrimSpace(req.Channel) == "" {
			writeError(w, r, http.StatusBadRequest, "channel is required")
			return
		}
		writeError(w, r, http.StatusNotFound, "channel not found")
		return
	}

	a.recordGeneration(r, identity, access.ToolChannelInspector)
	writeJSON(w, http.StatusOK, report)
}

// recordGeneration feeds the persisted activity log and the live feed.
func (a *API) recordGeneration(r *http.Request, identity access.Identity, tool string) {
	if a.content != nil {
		_ = a.content.RecordActivity(r.Context(), identity.UserID, tool, "generation", "")
	}
	if a.hub != nil {
		a.hub.Publish(stream.Event{
			UserID: identity.UserID,
			Tool:   tool,
			Action: "generation",
		})
	}
}

func writeFrame(w http.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_, _ = w.Write([]byte("data: "))
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("\n\n"))
}

func writeSentinel(w http.ResponseWriter) {
	_, _ = w.Write([]byte("data: [DONE]\n\n"))
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, genai.ErrInFlight):
		return "in_flight"
	case genai.ErrorKind(err) == genai.KindRateLimited:
		return "rate_limited"
	case genai.ErrorKind(err) == genai.KindQuota:
		return "quota"
	default:
		return "error"
	}
}

func handleGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, genai.ErrInFlight):
		writeError(w, r, http.StatusConflict, "a generation for this tool is already running")
	case genai.ErrorKind(err) == genai.KindRateLimited:
		writeError(w, r, http.StatusTooManyRequests, "generation service is rate limiting, try again shortly")
	case genai.ErrorKind(err) == genai.KindQuota:
		writeError(w, r, http.StatusPaymentRequired, "generation quota exhausted")
	case genai.ErrorKind(err) == genai.KindTransport:
		writeError(w, r, http.StatusBadGateway, "generation service unreachable")
	default:
		writeError(w, r, http.StatusBadGateway, "generation failed")
	}
}
