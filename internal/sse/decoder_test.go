package sse

import (
	"strings"
	"testing"
)

const wire = "data: {\"choices\":[{\"delta\":{\"content\":\"ab\"}}]}\n\ndata: {\"choices\":[{\"delta\":{\"content\":\"cd\"}}]}\n\ndata: [DONE]\n\n"

func feedAll(t *testing.T, chunks ...string) *Decoder {
	t.Helper()
	d := NewDecoder()
	for _, c := range chunks {
		d.Feed([]byte(c))
	}
	return d
}

// Any split of the byte stream, including mid-line and mid-JSON, must
// produce identical accumulated text.
func TestChunkSplitInvariance(t *testing.T) {
	for cut := 0; cut <= len(wire); cut++ {
		d := feedAll(t, wire[:cut], wire[cut:])
		if got := d.Text(); got != "abcd" {
			t.Fatalf("split at %d: accumulated %q, want %q", cut, got, "abcd")
		}
		if !d.Done() {
			t.Fatalf("split at %d: sentinel not detected", cut)
		}
	}
}

func TestByteAtATime(t *testing.T) {
	d := NewDecoder()
	for i := 0; i < len(wire); i++ {
		d.Feed([]byte{wire[i]})
	}
	if got := d.Text(); got != "abcd" {
		t.Fatalf("accumulated %q, want %q", got, "abcd")
	}
}

func TestSingleChunk(t *testing.T) {
	d := feedAll(t, wire)
	if got := d.Text(); got != "abcd" {
		t.Fatalf("accumulated %q, want %q", got, "abcd")
	}
}

func TestDeltasEmittedInOrder(t *testing.T) {
	d := NewDecoder()
	var deltas []string
	deltas = append(deltas, d.Feed([]byte(wire))...)
	if strings.Join(deltas, "|") != "ab|cd" {
		t.Fatalf("unexpected deltas: %v", deltas)
	}
}

func TestTrailingContentAfterSentinelIgnored(t *testing.T) {
	d := feedAll(t, wire, "data: {\"choices\":[{\"delta\":{\"content\":\"zz\"}}]}\n\n")
	if got := d.Text(); got != "abcd" {
		t.Fatalf("content after sentinel leaked in: %q", got)
	}
}

func TestCommentsAndKeepalivesIgnored(t *testing.T) {
	d := feedAll(t,
		": stream started\n\n",
		"event: ping\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n\n",
		"data: [DONE]\n\n",
	)
	if got := d.Text(); got != "x" {
		t.Fatalf("accumulated %q, want %q", got, "x")
	}
}

// A frame whose JSON is truncated at a newline boundary must be held back
// and completed by the following chunk, never skipped.
func TestTruncatedJSONHeldBack(t *testing.T) {
	d := feedAll(t,
		"data: {\"choices\":[{\"delta\":{\"cont",
		"ent\":\"hello\"}}]}\n\ndata: [DONE]\n\n",
	)
	if got := d.Text(); got != "hello" {
		t.Fatalf("accumulated %q, want %q", got, "hello")
	}
}

func TestEmptyDeltaFramesProduceNothing(t *testing.T) {
	d := feedAll(t,
		"data: {\"choices\":[{\"delta\":{}}]}\n\n",
		"data: {\"choices\":[]}\n\n",
		"data: [DONE]\n\n",
	)
	if got := d.Text(); got != "" {
		t.Fatalf("expected empty accumulation, got %q", got)
	}
	if !d.Done() {
		t.Fatal("sentinel missed")
	}
}

func TestCarriageReturnsStripped(t *testing.T) {
	d := feedAll(t, "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\r\n\r\ndata: [DONE]\r\n\r\n")
	if got := d.Text(); got != "ok" {
		t.Fatalf("accumulated %q, want %q", got, "ok")
	}
	if !d.Done() {
		t.Fatal("sentinel missed with CRLF framing")
	}
}

func TestFeedAfterDoneIsNoop(t *testing.T) {
	d := feedAll(t, wire)
	if deltas := d.Feed([]byte(wire)); deltas != nil {
		t.Fatalf("unexpected deltas after done: %v", deltas)
	}
}
