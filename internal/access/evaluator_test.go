package access

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func grantFor(toolID string, expiresAt *time.Time) Grant {
	return Grant{UserID: "user-1", ToolID: toolID, GrantedAt: fixedNow.Add(-time.Hour), ExpiresAt: expiresAt}
}

func TestAdminBypassesEverything(t *testing.T) {
	admin := Identity{UserID: "admin-1", Admin: true}
	for _, locked := range []bool{true, false} {
		e := NewEvaluator(admin, locked, nil, WithClock(clock))
		for _, tool := range Catalog {
			if !e.CanUse(tool) {
				t.Fatalf("admin denied tool %s with locked=%v", tool, locked)
			}
		}
		if !e.HasAny() {
			t.Fatalf("admin HasAny false with locked=%v", locked)
		}
	}
}

func TestOpenModeAdmitsEveryone(t *testing.T) {
	for _, id := range []Identity{{UserID: "user-1"}, {}} {
		e := NewEvaluator(id, false, nil, WithClock(clock))
		if !e.CanUse(ToolTagGenerator) {
			t.Fatalf("open mode denied identity %+v", id)
		}
		if !e.HasAny() {
			t.Fatalf("open mode HasAny false for identity %+v", id)
		}
	}
}

func TestLockedWithoutGrantDenies(t *testing.T) {
	e := NewEvaluator(Identity{UserID: "user-1"}, true, []Grant{grantFor(ToolHookGenerator, nil)}, WithClock(clock))
	if e.CanUse(ToolTagGenerator) {
		t.Fatal("expected denial for tool without grant")
	}
	if !e.CanUse(ToolHookGenerator) {
		t.Fatal("expected access for granted tool")
	}
}

func TestExpiredGrantNeverResurrects(t *testing.T) {
	past := fixedNow.Add(-time.Minute)
	future := fixedNow.Add(time.Hour)

	e := NewEvaluator(Identity{UserID: "user-1"}, true, []Grant{grantFor(ToolTagGenerator, &past)}, WithClock(clock))
	if e.CanUse(ToolTagGenerator) {
		t.Fatal("expired grant granted access")
	}

	e = NewEvaluator(Identity{UserID: "user-1"}, true, []Grant{grantFor(ToolTagGenerator, &future)}, WithClock(clock))
	if !e.CanUse(ToolTagGenerator) {
		t.Fatal("unexpired grant denied access")
	}

	e = NewEvaluator(Identity{UserID: "user-1"}, true, []Grant{grantFor(ToolTagGenerator, nil)}, WithClock(clock))
	if !e.CanUse(ToolTagGenerator) {
		t.Fatal("nil expiry must never expire")
	}
}

// HasAny is a coarse "has at least one historical grant row" check. It must
// not filter expired grants even though CanUse does.
func TestHasAnyIgnoresExpiry(t *testing.T) {
	past := fixedNow.Add(-time.Minute)
	grants := []Grant{grantFor(ToolTagGenerator, &past)}

	e := NewEvaluator(Identity{UserID: "user-1"}, true, grants, WithClock(clock))
	if !e.HasAny() {
		t.Fatal("HasAny must count expired grants")
	}
	if e.CanUse(ToolTagGenerator) {
		t.Fatal("CanUse must not count expired grants")
	}

	e = NewEvaluator(Identity{UserID: "user-1"}, true, nil, WithClock(clock))
	if e.HasAny() {
		t.Fatal("HasAny true with no grants under lock")
	}
}

func TestValidTool(t *testing.T) {
	if !ValidTool(ToolContentCalendar) {
		t.Fatal("catalog tool reported invalid")
	}
	if ValidTool("time-machine") {
		t.Fatal("unknown tool reported valid")
	}
}
