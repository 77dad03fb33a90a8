package sysml

import (
	"errors"
	"testing"

	"github.com/david-basis/archmodel/model"
)

const demoDoc = `
package Demo {
	item def Power { }

	port def PowerPort {
		in item supply: Power;
		out item status: Signal;
	}

	part def Controller {
		port p1: PowerPort;
		port p2;
		part a: Sensor;
		part b: Actuator [2];
	}

	requirement def R1 {
		id = "REQ-1";
		text = "Must clear 3mm";
	}

	state def DoorBehavior {
		entry; then OPEN;
		state OPEN {
			entry action logOpen { doSomething(); }
		}
		state CLOSED { }
		transition t1 first OPEN accept go then CLOSED;
	}

	interface connect (a.b, c.d);
	bind a.pwr = b.sig;
}
`

// mustParse fails the test on a parse error.
func mustParse(t *testing.T, src string) *model.Model {
	t.Helper()
	m, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return m
}

// byName finds the unique element with the given kind and name.
func byName(t *testing.T, m *model.Model, kind model.Kind, name string) *model.Element {
	t.Helper()
	for _, el := range m.Elements {
		if el.Kind == kind && el.Name == name {
			return el
		}
	}
	t.Fatalf("no %v element named %q", kind, name)
	return nil
}

func TestParseEmptyInput(t *testing.T) {
	m := mustParse(t, "")
	if m.Root != "" {
		t.Errorf("root = %q, want none", m.Root)
	}
	if len(m.Elements) != 0 {
		t.Errorf("got %d elements, want 0", len(m.Elements))
	}
}

func TestParseNoPackage(t *testing.T) {
	// Without an opening package the body grammar is never entered.
	m := mustParse(t, "part def Engine;")
	if len(m.Elements) != 0 {
		t.Errorf("got %d elements, want 0", len(m.Elements))
	}
}

func TestParsePackageRoot(t *testing.T) {
	m := mustParse(t, "package Demo { }")
	root, ok := m.Element(m.Root)
	if !ok {
		t.Fatal("root package missing from element map")
	}
	if root.Kind != model.KindPackage || root.Name != "Demo" {
		t.Errorf("root = %v %q", root.Kind, root.Name)
	}
	if root.Parent != "" {
		t.Errorf("root parent = %q, want empty", root.Parent)
	}
}

func TestPartDefStructure(t *testing.T) {
	m := mustParse(t, demoDoc)
	ctrl := byName(t, m, model.KindPartDef, "Controller")

	children := m.Children(ctrl.ID)
	wantNames := []string{"p1", "p2", "a", "b"}
	if len(children) != len(wantNames) {
		t.Fatalf("got %d children, want %d", len(children), len(wantNames))
	}
	for i, want := range wantNames {
		if children[i].Name != want {
			t.Errorf("child %d = %q, want %q", i, children[i].Name, want)
		}
	}

	if len(ctrl.Ports) != 2 || ctrl.Ports[0] != children[0].ID || ctrl.Ports[1] != children[1].ID {
		t.Errorf("ports = %v, want [%s %s]", ctrl.Ports, children[0].ID, children[1].ID)
	}
	if len(ctrl.Parts) != 2 || ctrl.Parts[0] != children[2].ID || ctrl.Parts[1] != children[3].ID {
		t.Errorf("parts = %v, want [%s %s]", ctrl.Parts, children[2].ID, children[3].ID)
	}

	p1 := children[0]
	if p1.DefRef != "PowerPort" {
		t.Errorf("p1 defRef = %q, want PowerPort", p1.DefRef)
	}
	if children[1].DefRef != "" {
		t.Errorf("p2 defRef = %q, want empty", children[1].DefRef)
	}

	b := children[3]
	if b.DefRef != "Actuator" || b.Multiplicity != "2" {
		t.Errorf("b = ref %q mult %q, want Actuator 2", b.DefRef, b.Multiplicity)
	}
}

func TestParentConsistency(t *testing.T) {
	m := mustParse(t, demoDoc)
	for _, el := range m.Elements {
		for _, cid := range el.Children {
			child, ok := m.Element(cid)
			if !ok {
				t.Fatalf("%s lists missing child %s", el.ID, cid)
			}
			if child.Parent != el.ID {
				t.Errorf("child %s parent = %q, want %q", cid, child.Parent, el.ID)
			}
		}
	}
}

func TestPortDefItems(t *testing.T) {
	m := mustParse(t, demoDoc)
	pd := byName(t, m, model.KindPortDef, "PowerPort")

	want := []model.PortItem{
		{Direction: "in", Name: "supply", Type: "Power"},
		{Direction: "out", Name: "status", Type: "Signal"},
	}
	if len(pd.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(pd.Items), len(want))
	}
	for i := range want {
		if pd.Items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, pd.Items[i], want[i])
		}
	}
}

func TestRequirementFields(t *testing.T) {
	m := mustParse(t, demoDoc)
	req := byName(t, m, model.KindRequirementDef, "R1")
	if req.ReqID != "REQ-1" {
		t.Errorf("reqId = %q, want REQ-1", req.ReqID)
	}
	if req.Text != "Must clear 3mm" {
		t.Errorf("text = %q, want %q", req.Text, "Must clear 3mm")
	}
}

func TestStateMachineExtraction(t *testing.T) {
	m := mustParse(t, demoDoc)
	sm := byName(t, m, model.KindStateDef, "DoorBehavior")

	if len(sm.States) != 2 {
		t.Fatalf("states = %v, want 2 entries", sm.States)
	}
	open, _ := m.Element(sm.States[0])
	closed, _ := m.Element(sm.States[1])
	if open.Name != "OPEN" || closed.Name != "CLOSED" {
		t.Errorf("states = %q, %q; want OPEN, CLOSED", open.Name, closed.Name)
	}
	if open.EntryAction != "logOpen" {
		t.Errorf("OPEN entry action = %q, want logOpen", open.EntryAction)
	}

	if len(sm.Transitions) != 1 {
		t.Fatalf("transitions = %v, want 1 entry", sm.Transitions)
	}
	tr, _ := m.Element(sm.Transitions[0])
	if tr.Name != "t1" || tr.Source != "OPEN" || tr.Target != "CLOSED" || tr.Trigger != "go" {
		t.Errorf("t1 = %q first %q accept %q then %q", tr.Name, tr.Source, tr.Trigger, tr.Target)
	}
}

func TestTransitionLastClauseWins(t *testing.T) {
	m := mustParse(t, `package P {
		state def S {
			transition t first A first B then C;
		}
	}`)
	tr := byName(t, m, model.KindTransition, "t")
	if tr.Source != "B" {
		t.Errorf("source = %q, want B (last first-clause wins)", tr.Source)
	}
	if tr.Trigger != "" {
		t.Errorf("trigger = %q, want empty", tr.Trigger)
	}
}

func TestConnectionEndpoints(t *testing.T) {
	m := mustParse(t, demoDoc)
	conns := m.Connections()
	if len(conns) != 1 {
		t.Fatalf("got %d connections, want 1", len(conns))
	}
	if conns[0].Source != "a.b" || conns[0].Target != "c.d" {
		t.Errorf("connection = %q -> %q, want a.b -> c.d", conns[0].Source, conns[0].Target)
	}
}

func TestBindEndpoints(t *testing.T) {
	m := mustParse(t, demoDoc)
	binds := m.ByKind(model.KindBind)
	if len(binds) != 1 {
		t.Fatalf("got %d binds, want 1", len(binds))
	}
	if binds[0].Source != "a.pwr" || binds[0].Target != "b.sig" {
		t.Errorf("bind = %q -> %q, want a.pwr -> b.sig", binds[0].Source, binds[0].Target)
	}
}

func TestOtherInterfaceStatementsSkipped(t *testing.T) {
	m := mustParse(t, `package P {
		interface something else entirely;
		interface connect (x.y, z.w);
	}`)
	conns := m.Connections()
	if len(conns) != 1 {
		t.Fatalf("got %d connections, want 1", len(conns))
	}
	if conns[0].Source != "x.y" {
		t.Errorf("source = %q, want x.y", conns[0].Source)
	}
}

func TestUnknownBodyTokensDiscarded(t *testing.T) {
	m := mustParse(t, `package P {
		attribute mass;
		part def Engine;
	}`)
	engine := byName(t, m, model.KindPartDef, "Engine")
	if engine.Parent != m.Root {
		t.Errorf("Engine parent = %q, want root package", engine.Parent)
	}
}

func TestFailFastOnMissingName(t *testing.T) {
	_, err := Parse("package P {\n\tpart def { }\n}")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if perr.WantKind != TokenIdent {
		t.Errorf("want-kind = %v, want identifier", perr.WantKind)
	}
	if perr.GotText != "{" {
		t.Errorf("got-text = %q, want {", perr.GotText)
	}
	if perr.Line != 2 {
		t.Errorf("line = %d, want 2", perr.Line)
	}
}

func TestCommentsIgnoredByParser(t *testing.T) {
	m := mustParse(t, `package P {
		// a line comment
		/* a block
		   comment */
		part def Engine;
	}`)
	if len(m.PartDefs()) != 1 {
		t.Errorf("got %d part defs, want 1", len(m.PartDefs()))
	}
}

// structuralShape flattens a model into a comparable representation that is
// independent of the generated ids.
func structuralShape(m *model.Model, id string) []string {
	el, ok := m.Element(id)
	if !ok {
		return nil
	}
	shape := []string{string(el.Kind) + ":" + el.Name}
	for _, child := range m.Children(id) {
		shape = append(shape, structuralShape(m, child.ID)...)
	}
	return shape
}

func TestParseIdempotence(t *testing.T) {
	m1 := mustParse(t, demoDoc)
	m2 := mustParse(t, demoDoc)

	if len(m1.Elements) != len(m2.Elements) {
		t.Fatalf("element counts differ: %d vs %d", len(m1.Elements), len(m2.Elements))
	}
	s1 := structuralShape(m1, m1.Root)
	s2 := structuralShape(m2, m2.Root)
	if len(s1) != len(s2) {
		t.Fatalf("shapes differ in size: %d vs %d", len(s1), len(s2))
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			t.Errorf("shape entry %d: %q vs %q", i, s1[i], s2[i])
		}
	}
}

func TestParserStateDoesNotLeak(t *testing.T) {
	// Ids restart from e0 on every call.
	m1 := mustParse(t, "package A { }")
	m2 := mustParse(t, "package B { }")
	if m1.Root != "e0" || m2.Root != "e0" {
		t.Errorf("roots = %q, %q; want e0 for both", m1.Root, m2.Root)
	}
}
