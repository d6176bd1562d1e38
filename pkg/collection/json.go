package collection

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/synclab/postsync/pkg/errors"
)

// objectEncoder assembles a JSON object with explicit key order, which the
// standard library cannot do once unknown keys enter the picture. Fields
// are written in call order; preserved extras are appended sorted by key.
type objectEncoder struct {
	buf bytes.Buffer
	err error
}

func newObjectEncoder() *objectEncoder {
	oe := &objectEncoder{}
	oe.buf.WriteByte('{')
	return oe
}

func (oe *objectEncoder) field(key string, v any) {
	if oe.err != nil {
		return
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		oe.err = err
		return
	}
	oe.rawField(key, encoded)
}

func (oe *objectEncoder) rawField(key string, raw json.RawMessage) {
	if oe.err != nil {
		return
	}
	if oe.buf.Len() > 1 {
		oe.buf.WriteByte(',')
	}
	kb, err := json.Marshal(key)
	if err != nil {
		oe.err = err
		return
	}
	oe.buf.Write(kb)
	oe.buf.WriteByte(':')
	oe.buf.Write(raw)
}

func (oe *objectEncoder) encode(extra map[string]json.RawMessage) ([]byte, error) {
	if oe.err != nil {
		return nil, oe.err
	}
	if len(extra) > 0 {
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			oe.rawField(k, extra[k])
		}
	}
	oe.buf.WriteByte('}')
	return oe.buf.Bytes(), nil
}

// rawObject decodes data into a key-to-raw map, failing unless data is a
// JSON object.
func rawObject(data []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]json.RawMessage{}
	}
	return m, nil
}

// firstByte returns the first non-whitespace byte of raw, or 0.
func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

// popString moves a string-valued key from m into dst. Values of any other
// type are left in m so they survive in the owner's Extra map untouched.
func popString(m map[string]json.RawMessage, key string, dst *string) {
	raw, ok := m[key]
	if !ok {
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return
	}
	*dst = s
	delete(m, key)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	m, err := rawObject(data)
	if err != nil {
		return err
	}
	*d = Document{decoded: true}
	if raw, ok := m["info"]; ok {
		d.hasInfo = true
		if err := json.Unmarshal(raw, &d.Info); err != nil {
			return err
		}
		delete(m, "info")
	}
	if raw, ok := m["item"]; ok {
		d.hasItems = true
		if firstByte(raw) != '[' {
			d.badItems = true
		} else if err := json.Unmarshal(raw, &d.Items); err != nil {
			return err
		}
		delete(m, "item")
	}
	if len(m) > 0 {
		d.Extra = m
	}
	return nil
}

func (d *Document) MarshalJSON() ([]byte, error) {
	items := d.Items
	if items == nil {
		items = []*Node{}
	}
	oe := newObjectEncoder()
	oe.field("info", d.Info)
	oe.field("item", items)
	return oe.encode(d.Extra)
}

func (i *Info) UnmarshalJSON(data []byte) error {
	m, err := rawObject(data)
	if err != nil {
		return err
	}
	*i = Info{}
	popString(m, "_postman_id", &i.PostmanID)
	popString(m, "name", &i.Name)
	popString(m, "description", &i.Description)
	popString(m, "schema", &i.Schema)
	if len(m) > 0 {
		i.Extra = m
	}
	return nil
}

func (i Info) MarshalJSON() ([]byte, error) {
	oe := newObjectEncoder()
	if i.PostmanID != "" {
		oe.field("_postman_id", i.PostmanID)
	}
	oe.field("name", i.Name)
	if i.Description != "" {
		oe.field("description", i.Description)
	}
	if i.Schema != "" {
		oe.field("schema", i.Schema)
	}
	return oe.encode(i.Extra)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	probe, err := rawObject(data)
	if err != nil {
		return err
	}
	// An object carrying an "item" key is a group, anything else an entry.
	// This is the only place that distinction is made from shape.
	if _, ok := probe["item"]; ok {
		g := &Group{}
		if err := json.Unmarshal(data, g); err != nil {
			return err
		}
		*n = Node{Group: g}
		return nil
	}
	e := &Entry{}
	if err := json.Unmarshal(data, e); err != nil {
		return err
	}
	*n = Node{Entry: e}
	return nil
}

func (n *Node) MarshalJSON() ([]byte, error) {
	switch {
	case n.IsGroup():
		return json.Marshal(n.Group)
	case n.IsEntry():
		return json.Marshal(n.Entry)
	}
	return nil, errors.New("collection: cannot encode an empty node")
}

func (g *Group) UnmarshalJSON(data []byte) error {
	m, err := rawObject(data)
	if err != nil {
		return err
	}
	*g = Group{}
	popString(m, "name", &g.Name)
	if raw, ok := m["item"]; ok {
		if err := json.Unmarshal(raw, &g.Items); err != nil {
			return err
		}
		delete(m, "item")
	}
	if len(m) > 0 {
		g.Extra = m
	}
	return nil
}

func (g *Group) MarshalJSON() ([]byte, error) {
	items := g.Items
	if items == nil {
		items = []*Node{}
	}
	oe := newObjectEncoder()
	oe.field("name", g.Name)
	oe.field("item", items)
	return oe.encode(g.Extra)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	m, err := rawObject(data)
	if err != nil {
		return err
	}
	*e = Entry{}
	popString(m, "name", &e.Name)
	if raw, ok := m["event"]; ok {
		if err := json.Unmarshal(raw, &e.Events); err != nil {
			return err
		}
		if e.Events == nil {
			e.Events = []*Event{}
		}
		delete(m, "event")
	}
	if raw, ok := m["request"]; ok {
		r := &Request{}
		if err := json.Unmarshal(raw, r); err != nil {
			return err
		}
		e.Request = r
		delete(m, "request")
	}
	if raw, ok := m["response"]; ok {
		if err := json.Unmarshal(raw, &e.Responses); err != nil {
			return err
		}
		if e.Responses == nil {
			e.Responses = []json.RawMessage{}
		}
		delete(m, "response")
	}
	if len(m) > 0 {
		e.Extra = m
	}
	return nil
}

func (e *Entry) MarshalJSON() ([]byte, error) {
	oe := newObjectEncoder()
	oe.field("name", e.Name)
	if e.Events != nil {
		oe.field("event", e.Events)
	}
	if e.Request != nil {
		oe.field("request", e.Request)
	}
	if e.Responses != nil {
		oe.field("response", e.Responses)
	}
	return oe.encode(e.Extra)
}

func (r *Request) UnmarshalJSON(data []byte) error {
	m, err := rawObject(data)
	if err != nil {
		return err
	}
	*r = Request{}
	popString(m, "method", &r.Method)
	if raw, ok := m["header"]; ok {
		if err := json.Unmarshal(raw, &r.Headers); err != nil {
			return err
		}
		if r.Headers == nil {
			r.Headers = []json.RawMessage{}
		}
		delete(m, "header")
	}
	if raw, ok := m["url"]; ok {
		u := &URL{}
		if err := json.Unmarshal(raw, u); err != nil {
			return err
		}
		r.URL = u
		delete(m, "url")
	}
	if raw, ok := m["description"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			r.Description = s
			if s == "" {
				// An explicit empty string must survive re-encode.
				r.descRaw = raw
			}
		} else {
			// Object-form descriptions are carried as-is until the
			// engine rewrites them as plain text.
			r.descRaw = raw
		}
		delete(m, "description")
	}
	if len(m) > 0 {
		r.Extra = m
	}
	return nil
}

func (r *Request) MarshalJSON() ([]byte, error) {
	oe := newObjectEncoder()
	if r.Method != "" {
		oe.field("method", r.Method)
	}
	if r.Headers != nil {
		oe.field("header", r.Headers)
	}
	if r.URL != nil {
		oe.field("url", r.URL)
	}
	switch {
	case r.Description != "":
		oe.field("description", r.Description)
	case r.descRaw != nil:
		oe.rawField("description", r.descRaw)
	}
	return oe.encode(r.Extra)
}

func (u *URL) UnmarshalJSON(data []byte) error {
	if firstByte(data) == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = URL{Raw: s, isString: true}
		return nil
	}
	m, err := rawObject(data)
	if err != nil {
		return err
	}
	*u = URL{}
	popString(m, "raw", &u.Raw)
	if raw, ok := m["host"]; ok {
		var host []string
		if err := json.Unmarshal(raw, &host); err == nil {
			u.Host = host
			delete(m, "host")
		}
	}
	if raw, ok := m["path"]; ok {
		var segments []string
		if err := json.Unmarshal(raw, &segments); err == nil {
			u.Path = segments
			delete(m, "path")
		}
	}
	if len(m) > 0 {
		u.Extra = m
	}
	return nil
}

func (u *URL) MarshalJSON() ([]byte, error) {
	if u.isString && u.Host == nil && u.Path == nil && len(u.Extra) == 0 {
		return json.Marshal(u.Raw)
	}
	oe := newObjectEncoder()
	if u.Raw != "" {
		oe.field("raw", u.Raw)
	}
	if u.Host != nil {
		oe.field("host", u.Host)
	}
	if u.Path != nil {
		oe.field("path", u.Path)
	}
	return oe.encode(u.Extra)
}

func (ev *Event) UnmarshalJSON(data []byte) error {
	m, err := rawObject(data)
	if err != nil {
		return err
	}
	*ev = Event{}
	popString(m, "listen", &ev.Listen)
	if raw, ok := m["script"]; ok {
		s := &Script{}
		if err := json.Unmarshal(raw, s); err != nil {
			return err
		}
		ev.Script = s
		delete(m, "script")
	}
	if len(m) > 0 {
		ev.Extra = m
	}
	return nil
}

func (ev *Event) MarshalJSON() ([]byte, error) {
	oe := newObjectEncoder()
	if ev.Listen != "" {
		oe.field("listen", ev.Listen)
	}
	if ev.Script != nil {
		oe.field("script", ev.Script)
	}
	return oe.encode(ev.Extra)
}

func (s *Script) UnmarshalJSON(data []byte) error {
	m, err := rawObject(data)
	if err != nil {
		return err
	}
	*s = Script{}
	if raw, ok := m["exec"]; ok {
		if firstByte(raw) == '"' {
			var line string
			if err := json.Unmarshal(raw, &line); err != nil {
				return err
			}
			s.Exec = []string{line}
		} else if err := json.Unmarshal(raw, &s.Exec); err != nil {
			return err
		}
		delete(m, "exec")
	}
	popString(m, "type", &s.Type)
	if len(m) > 0 {
		s.Extra = m
	}
	return nil
}

func (s *Script) MarshalJSON() ([]byte, error) {
	oe := newObjectEncoder()
	if s.Exec != nil {
		oe.field("exec", s.Exec)
	}
	if s.Type != "" {
		oe.field("type", s.Type)
	}
	return oe.encode(s.Extra)
}
