package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message ("kind" names the
// offending construct, "path" locates it).
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"unsupported_syntax":    "unsupported declaration syntax {kind}",
		"malformed_declaration": "malformed declaration",
		"synthesis_policy":      "cannot turn {path} into a block",
		"name_collision":        "block type {kind} already exists",
		"no_generator":          "no generator for block type {kind}",
		"missing_input":         "required input {path} is empty",
		"invalid_field":         "invalid field {path}",
		"invalid_connection":    "invalid connection at {path}",
		"invalid_workspace":     "invalid workspace",
		"invalid_manifest":      "invalid toolbox manifest",
	},
	"ja": {
		"unsupported_syntax":    "未対応の宣言構文です ({kind})",
		"malformed_declaration": "宣言の形式が不正です",
		"synthesis_policy":      "{path} はブロックに変換できません",
		"name_collision":        "ブロック種別 {kind} は既に存在します",
		"no_generator":          "ブロック種別 {kind} のジェネレータがありません",
		"missing_input":         "必須入力 {path} が空です",
		"invalid_field":         "フィールド {path} が不正です",
		"invalid_connection":    "{path} の接続が不正です",
		"invalid_workspace":     "ワークスペースが不正です",
		"invalid_manifest":      "ツールボックス定義が不正です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	for k, v := range data {
		if v == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	// Drop placeholders the caller did not fill.
	for _, k := range []string{"kind", "path"} {
		msg = strings.ReplaceAll(msg, " ({"+k+"})", "")
		msg = strings.ReplaceAll(msg, " {"+k+"}", "")
		msg = strings.ReplaceAll(msg, "{"+k+"} ", "")
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
