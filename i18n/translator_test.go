package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("name_collision", map[string]string{"kind": "on"}); msg != "block type on already exists" {
		t.Fatalf("unexpected english message %q", msg)
	}

	SetLanguage("ja")
	if msg := T("missing_input", map[string]string{"path": "b1/pin"}); msg != "必須入力 b1/pin が空です" {
		t.Fatalf("unexpected japanese message %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnfilledPlaceholdersAndUnknownCodes(t *testing.T) {
	if msg := T("unsupported_syntax", map[string]string{"kind": ""}); msg != "unsupported declaration syntax" {
		t.Fatalf("got %q", msg)
	}
	if msg := T("no_generator", nil); msg != "no generator for block type" {
		t.Fatalf("got %q", msg)
	}
	if msg := T("something_else", nil); msg != "something_else" {
		t.Fatalf("unknown code must pass through, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("invalid_field", nil); msg != "X:invalid_field" {
		t.Fatalf("got %q", msg)
	}
}
