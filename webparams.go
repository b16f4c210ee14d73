package dbadmin

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type pair struct {
	key   string
	value string
}

// WebParams is the single merged key/value view of one request's string
// inputs. If the request carried a form body, the body is used and the query
// string is ignored entirely; merging the two would make an edit form's
// hidden fields ambiguous against a stale query string.
//
// Keys are unique and keep their first-seen position; a repeated key within
// one source overwrites the value in place (last write wins).
type WebParams struct {
	pairs []pair
}

// ParamsFromRequest extracts WebParams from a request. A parseable
// form-encoded body takes precedence over the query string.
func ParamsFromRequest(r *http.Request) (WebParams, error) {
	ct := r.Header.Get("Content-Type")
	if r.Body != nil && strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return WebParams{}, newError(KindMissingParameter,
				"could not read request body",
				fmt.Sprintf("reading form body: %v", err),
				"dbadmin.ParamsFromRequest")
		}
		if len(body) > 0 {
			return parsePairs(string(body)), nil
		}
	}
	return parsePairs(r.URL.RawQuery), nil
}

// parsePairs decodes a urlencoded string by hand. url.Values is a map and
// loses the submission order; templates and WHERE building depend on it.
func parsePairs(raw string) WebParams {
	var p WebParams
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		p.set(k, v)
	}
	return p
}

func (p *WebParams) set(key, value string) {
	for i := range p.pairs {
		if p.pairs[i].key == key {
			p.pairs[i].value = value
			return
		}
	}
	p.pairs = append(p.pairs, pair{key: key, value: value})
}

// Get returns the raw value for a key.
func (p WebParams) Get(key string) (string, bool) {
	for _, kv := range p.pairs {
		if kv.key == key {
			return kv.value, true
		}
	}
	return "", false
}

// Len reports the number of distinct keys.
func (p WebParams) Len() int { return len(p.pairs) }

// GetText returns the named parameter as text.
func (p WebParams) GetText(name string) (string, error) {
	value, ok := p.Get(name)
	if !ok {
		return "", newError(KindMissingParameter,
			fmt.Sprintf("missing request parameter: %s", name),
			p.describe(),
			"dbadmin.WebParams.GetText")
	}
	return value, nil
}

// GetInt32 returns the named parameter as a signed 32-bit integer.
func (p WebParams) GetInt32(name string) (int32, error) {
	value, err := p.GetText(name)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseInt(value, 10, 32)
	if perr != nil {
		return 0, newError(KindInvalidInteger,
			fmt.Sprintf("request parameter is not an integer: %s", name),
			p.describe(),
			"dbadmin.WebParams.GetInt32")
	}
	return int32(n), nil
}

// describe renders the full parameter set for the developer log.
func (p WebParams) describe() string {
	var b strings.Builder
	b.WriteString("params[")
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%q", kv.key, kv.value)
	}
	b.WriteString("]")
	return b.String()
}
