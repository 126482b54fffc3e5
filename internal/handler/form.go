package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate はフォーム入力構造体の検証器。ハンドラ間で共有する。
var validate = validator.New(validator.WithRequiredStructEnabled())

// dateLayout はフォームのdate入力（<input type="date">）の形式。
const dateLayout = "2006-01-02"

// validationMessages はvalidatorのエラーをユーザー向けメッセージ一覧に変換する。
// messagesのキーは "フィールド名.タグ名"。未定義の違反は汎用メッセージになる。
func validationMessages(err error, messages map[string]string) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid input. Please check the form and try again."}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, "Invalid value for "+fe.Field())
	}
	return out
}

// parseDate はフォームのdate入力をパースする。
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// parseOptionalInt は省略可能な整数入力をパースする。
// 空文字はnilを返し、エラーにしない。
func parseOptionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseOptionalFloat は省略可能な小数入力をパースする。
// 空文字はnilを返し、エラーにしない。
func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
