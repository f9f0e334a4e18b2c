// Package sse reassembles OpenAI-style server-sent completion streams.
// The decoder is fed raw byte chunks exactly as they arrive from the
// network; it owns the line buffering, so callers never need to care how
// the transport split the frames.
package sse

import (
	"encoding/json"
	"strings"
)

// DoneSentinel terminates a completion stream. Anything after it is ignored.
const DoneSentinel = "[DONE]"

const dataPrefix = "data: "

// frame mirrors the wire shape {choices:[{delta:{content?: string}}]}.
type frame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Decoder incrementally decodes one completion stream. It is not safe for
// concurrent use; each stream gets its own Decoder and both buffers die
// with it, so an abandoned stream leaves no shared state behind.
type Decoder struct {
	buf         string
	accumulated strings.Builder
	done        bool
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed consumes the next transport chunk and returns the delta strings it
// completed, in arrival order. A chunk may complete zero, one or many
// frames; a frame split across chunks is finished by a later Feed. Feed
// never fails: malformed lines are either skipped or held back until more
// bytes arrive.
func (d *Decoder) Feed(chunk []byte) []string {
	if d.done || len(chunk) == 0 {
		return nil
	}
	d.buf += string(chunk)

	var deltas []string
	for !d.done {
		idx := strings.IndexByte(d.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSuffix(d.buf[:idx], "\r")
		rest := d.buf[idx+1:]

		delta, ok := d.decodeLine(line)
		if !ok {
			// The JSON payload was cut mid-frame by the transport. Re-join
			// the fragment with whatever follows and wait for more bytes.
			d.buf = line + rest
			break
		}
		d.buf = rest
		if delta != "" {
			d.accumulated.WriteString(delta)
			deltas = append(deltas, delta)
		}
	}
	if d.done {
		d.buf = ""
	}
	return deltas
}

// decodeLine handles one complete line. The second return value is false
// only when the line held a truncated JSON payload that should be retried
// once more bytes arrive.
func (d *Decoder) decodeLine(line string) (string, bool) {
	if line == "" || strings.HasPrefix(line, ":") {
		return "", true
	}
	payload, found := strings.CutPrefix(line, dataPrefix)
	if !found {
		return "", true
	}
	payload = strings.TrimSpace(payload)
	if payload == DoneSentinel {
		d.done = true
		return "", true
	}
	var f frame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return "", false
	}
	if len(f.Choices) == 0 {
		return "", true
	}
	return f.Choices[0].Delta.Content, true
}

// Done reports whether the terminal sentinel was seen.
func (d *Decoder) Done() bool {
	return d.done
}

// Text returns everything accumulated so far. After Done (or end of
// input) this is the complete generated text.
func (d *Decoder) Text() string {
	return d.accumulated.String()
}
