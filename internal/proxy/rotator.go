// Package proxy holds the relay endpoints used to reach the story site
// and the rotation state of a single conversion run.
package proxy

import (
	"net/url"
	"strings"
)

// Placeholder marks where the escaped target URL goes inside a template.
// Templates without it get the escaped target appended.
const Placeholder = "{url}"

var DefaultEndpoints = []string{
	"https://api.allorigins.win/raw?url=",
	"https://corsproxy.io/?url=",
	"https://api.codetabs.com/v1/proxy?quest=",
}

type Endpoint string

// Wrap embeds target into the endpoint template.
func (e Endpoint) Wrap(target string) string {
	escaped := url.QueryEscape(target)
	tpl := string(e)

	if strings.Contains(tpl, Placeholder) {
		return strings.ReplaceAll(tpl, Placeholder, escaped)
	}

	return tpl + escaped
}

// Rotator walks an ordered list of endpoints circularly. A Rotator belongs
// to one run and is not safe for concurrent use.
type Rotator struct {
	endpoints []Endpoint
	idx       int
}

func NewRotator(templates []string) *Rotator {
	out := make([]Endpoint, 0, len(templates))
	for _, t := range templates {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, Endpoint(t))
		}
	}

	if len(out) == 0 {
		for _, t := range DefaultEndpoints {
			out = append(out, Endpoint(t))
		}
	}

	return &Rotator{endpoints: out}
}

func (r *Rotator) Current() Endpoint {
	return r.endpoints[r.idx]
}

func (r *Rotator) Advance() {
	r.idx = (r.idx + 1) % len(r.endpoints)
}

func (r *Rotator) Index() int {
	return r.idx
}

func (r *Rotator) Len() int {
	return len(r.endpoints)
}
