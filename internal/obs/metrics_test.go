package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                     "/",
		"/metrics":                             "/metrics",
		"/v1/tools/tag-generator/generate":     "/v1/tools/:tool/generate",
		"/v1/content/01J5XYZ":                  "/v1/content/:id",
		"/v1/content":                          "/v1/content",
		"/v1/admin/team/01J5ABC":               "/v1/admin/team/:id",
		"/v1/admin/team":                       "/v1/admin/team",
		"/v1/activity/stream":                  "/v1/activity/stream",
		"/v1/tools/tag-generator/generate?x=1": "/v1/tools/:tool/generate",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
