package rules

import "strings"

// PF renders pf.conf rules.
type PF struct {
	Action    string
	Interface string
	Quick     bool
	Log       bool
	AddLabel  bool
	Proto     string
}

// Render builds "<action> out [log] [quick] [on <if>] proto <proto> to
// [<address>] [port <port>] [label <source>]". An entry without address
// still yields a rule, matching any destination.
func (p *PF) Render(e Entry) string {
	var r strings.Builder
	r.WriteString(p.Action)
	r.WriteString(" out")

	if p.Log {
		r.WriteString(" log")
	}
	if p.Quick {
		r.WriteString(" quick")
	}
	if p.Interface != "" {
		r.WriteString(" on ")
		r.WriteString(p.Interface)
	}

	r.WriteString(" proto ")
	r.WriteString(p.Proto)
	r.WriteString(" to")

	if e.Address != "" {
		r.WriteString(" ")
		r.WriteString(e.Address)
	}
	if e.Port != "" {
		r.WriteString(" port ")
		r.WriteString(e.Port)
	}
	if p.AddLabel && e.Source != "" {
		r.WriteString(" label ")
		r.WriteString(e.Source)
	}

	return r.String()
}
