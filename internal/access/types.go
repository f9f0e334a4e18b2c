package access

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("access: not found")
	ErrInvalidInput = errors.New("access: invalid input")
	ErrConflict     = errors.New("access: resource conflict")
)

// Tool identifiers. Granting "all tools" means one grant row per entry here.
const (
	ToolTagGenerator     = "tag-generator"
	ToolCaptionGenerator = "caption-generator"
	ToolScriptWriter     = "script-writer"
	ToolHashtagGenerator = "hashtag-generator"
	ToolHookGenerator    = "hook-generator"
	ToolReelIdeas        = "reel-ideas"
	ToolStoryIdeas       = "story-ideas"
	ToolCollabIdeas      = "collab-ideas"
	ToolGrowthStrategy   = "growth-strategy"
	ToolContentCalendar  = "content-calendar"
	ToolChannelInspector = "channel-inspector"
	ToolEngagementCalc   = "engagement-calculator"
)

// Catalog enumerates every gated tool in display order.
var Catalog = []string{
	ToolTagGenerator,
	ToolCaptionGenerator,
	ToolScriptWriter,
	ToolHashtagGenerator,
	ToolHookGenerator,
	ToolReelIdeas,
	ToolStoryIdeas,
	ToolCollabIdeas,
	ToolGrowthStrategy,
	ToolContentCalendar,
	ToolChannelInspector,
	ToolEngagementCalc,
}

// ValidTool reports whether id names a catalog tool.
func ValidTool(id string) bool {
	for _, t := range Catalog {
		if t == id {
			return true
		}
	}
	return false
}

// Identity is the evaluator's view of the current caller. UserID is empty
// for anonymous callers; Admin callers bypass all gating.
type Identity struct {
	UserID string `json:"user_id"`
	Admin  bool   `json:"is_admin"`
}

// Grant authorizes one user to use one tool, optionally time-limited.
// Uniqueness of (UserID, ToolID) is enforced by upsert at the store.
type Grant struct {
	UserID    string     `json:"user_id"`
	ToolID    string     `json:"tool_id"`
	GrantedAt time.Time  `json:"granted_at"`
	GrantedBy string     `json:"granted_by,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the grant has an expiry in the past relative to now.
// A nil ExpiresAt never expires.
func (g Grant) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && g.ExpiresAt.Before(now)
}

// SettingToolsLocked is the admin_settings key holding the global lock flag.
const SettingToolsLocked = "tools_locked"
