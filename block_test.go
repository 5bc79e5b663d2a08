package goblockly

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestDefinition_MarshalExpression(t *testing.T) {
	def := Definition{
		Type: "gpio.read",
		Kind: KindExpression,
		Inputs: []Input{
			{Kind: InputDummy, Fields: []Field{Label("gpio.read")}},
			{Kind: InputValue, Name: "pin", Check: Checked("Number"), Fields: []Field{Label("pin")}},
		},
		Output:  Checked("Number"),
		Colour:  "#404040",
		Tooltip: "Read the value of the given pin.",
	}
	b, err := json.Marshal(def)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["message0"] != "%1 %2 %3 %4" {
		t.Fatalf("message0 = %v", got["message0"])
	}
	if got["output"] != "Number" {
		t.Fatalf("output = %v", got["output"])
	}
	if _, ok := got["previousStatement"]; ok {
		t.Fatalf("expression block must not have a previous connection")
	}
	args := got["args0"].([]any)
	if len(args) != 4 {
		t.Fatalf("args0 = %v", args)
	}
	value := args[3].(map[string]any)
	if value["type"] != "input_value" || value["name"] != "pin" || value["check"] != "Number" {
		t.Fatalf("value arg = %v", value)
	}
}

func TestDefinition_MarshalStatementWithUncheckedOutput(t *testing.T) {
	stmt := Definition{
		Type:   "on",
		Kind:   KindStatement,
		Inputs: []Input{{Kind: InputDummy, Fields: []Field{Label("on"), Dropdown("event", "rising", "falling")}}},
	}
	b, err := json.Marshal(stmt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := got["previousStatement"]; !ok || v != nil {
		t.Fatalf("previousStatement = %v (present=%v), want null", v, ok)
	}
	if v, ok := got["nextStatement"]; !ok || v != nil {
		t.Fatalf("nextStatement = %v (present=%v), want null", v, ok)
	}
	dd := got["args0"].([]any)[1].(map[string]any)
	opts := dd["options"].([]any)
	if dd["type"] != "field_dropdown" || len(opts) != 2 {
		t.Fatalf("dropdown = %v", dd)
	}

	anyOut := Definition{Type: "x", Kind: KindExpression}
	b, _ = json.Marshal(anyOut)
	got = map[string]any{}
	_ = json.Unmarshal(b, &got)
	if v, ok := got["output"]; !ok || v != nil {
		t.Fatalf("unchecked output must marshal as null, got %v (present=%v)", v, ok)
	}
}

func TestDefinition_Lookups(t *testing.T) {
	def := Definition{Inputs: []Input{
		{Kind: InputDummy, Fields: []Field{Dropdown("mode", "a", "b")}},
		{Kind: InputValue, Name: "pin"},
	}}
	if _, ok := def.Input("pin"); !ok {
		t.Fatalf("input pin not found")
	}
	if f, ok := def.Field("mode"); !ok || len(f.Options) != 2 {
		t.Fatalf("field mode = %+v", f)
	}
	if _, ok := def.Input("missing"); ok {
		t.Fatalf("unexpected input")
	}
}
