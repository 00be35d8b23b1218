package httpapi

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// fieldErrors carries per-field validation messages for the add endpoint.
type fieldErrors struct {
	Key  string `json:"key,omitempty"`
	Link string `json:"link,omitempty"`
}

func validKeyChar(c rune) bool {
	return c >= '0' && c <= '9' ||
		c >= 'A' && c <= 'Z' ||
		c >= 'a' && c <= 'z' ||
		c == '_' || c == '-'
}

// validateAdd checks an add request before it touches the store. Key rules
// apply only to explicit keys; derived aliases satisfy them by construction.
func (rt *Router) validateAdd(req addLinkReq) *fieldErrors {
	var fail fieldErrors

	if req.Link == "" {
		fail.Link = "Link cannot be empty"
	} else if u, err := url.Parse(req.Link); err != nil || u.Host == "" {
		fail.Link = "Invalid URL"
	}

	if req.Key != "" {
		switch {
		case len(req.Key) < 4:
			fail.Key = "Key cannot be less than 4 characters"
		case strings.ContainsFunc(req.Key, func(c rune) bool { return !validKeyChar(c) }):
			fail.Key = "Key can only contain 0-9, A-Z, a-z, _ or -"
		case slices.Contains(rt.cfg.KeyBlacklist, req.Key):
			fail.Key = fmt.Sprintf("Key %q is disallowed", req.Key)
		default:
			if _, taken := rt.svc.Get(req.Key); taken {
				fail.Key = "Key already in use"
			}
		}
	}

	if fail.Key != "" || fail.Link != "" {
		return &fail
	}
	return nil
}
