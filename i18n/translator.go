package i18n

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "unmatching_type":
			return "要求された型が実際の型と一致しません"
		case "unit":
			return "フィールドを持たない型です"
		case "not_found":
			return "フィールドが見つかりません"
		case "primitive":
			return "プリミティブ型は構築できません"
		case "unexpected_type":
			return "引数の型が不正です"
		case "invalid_variant":
			return "指定されたバリアントは存在しません"
		case "private_fields":
			return "非公開のフィールドがあります"
		case "not_struct":
			return "構造体ではありません"
		case "not_enum":
			return "タグ付き共用体ではありません"
		case "not_enough_args":
			return "引数が不足しています"
		case "too_many_args":
			return "引数が多すぎます"
		}
	default: // "en"
		switch code {
		case "unmatching_type":
			return "requested type doesn't match actual type"
		case "unit":
			return "no fields in unit type or variant"
		case "not_found":
			return "field not found"
		case "primitive":
			return "can't construct primitive type"
		case "unexpected_type":
			return "unexpected argument type"
		case "invalid_variant":
			return "requested variant doesn't exist"
		case "private_fields":
			return "some fields are not constructible"
		case "not_struct":
			return "product construction called on a union type"
		case "not_enum":
			return "variant construction called on a non-union type"
		case "not_enough_args":
			return "not enough arguments"
		case "too_many_args":
			return "too many arguments"
		}
	}
	return code
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
