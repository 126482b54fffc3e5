package repository

import (
	"fmt"
	"strings"
)

// WhereBuilder は条件付きWHERE句を組み立てる小さな式ビルダー。
// (述語テンプレート, バインド値) のペアを蓄積し、1本のパラメータ化された
// ステートメントに描画する。動的フィルタは常にバインドパラメータとして渡し、
// クエリ文字列への連結は行わない。
//
// 述語テンプレート内のプレースホルダは ? で書き、Build時に $n へ順番に
// 変換される。
type WhereBuilder struct {
	conds []string
	args  []interface{}
}

// NewUserScope はuser_id条件を最初の述語として持つWhereBuilderを生成する。
// 個人レコードへの問い合わせは必ずこのスコープから始める。
func NewUserScope(userID int64) *WhereBuilder {
	b := &WhereBuilder{}
	b.And("user_id = ?", userID)
	return b
}

// And は述語を1つ追加する。述語はすべてANDで結合される。
// プレースホルダ数と引数数は一致していなければならない。
func (b *WhereBuilder) And(expr string, args ...interface{}) *WhereBuilder {
	if n := strings.Count(expr, "?"); n != len(args) {
		panic(fmt.Sprintf("repository: predicate %q has %d placeholders but %d args", expr, n, len(args)))
	}
	b.conds = append(b.conds, expr)
	b.args = append(b.args, args...)
	return b
}

// AndIf はcondがtrueの場合のみ述語を追加する。
// 欠けている・falsyなフィルタは条件もパラメータも一切寄与しない。
func (b *WhereBuilder) AndIf(cond bool, expr string, args ...interface{}) *WhereBuilder {
	if cond {
		b.And(expr, args...)
	}
	return b
}

// Build はSELECT句とORDER BY等の末尾句を受け取り、WHERE句を挟んだ
// 完全なステートメントとバインド引数を返す。
func (b *WhereBuilder) Build(selectClause, suffix string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(selectClause)
	sb.WriteString(" WHERE ")

	arg := 1
	for i, cond := range b.conds {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		for _, r := range cond {
			if r == '?' {
				sb.WriteString(fmt.Sprintf("$%d", arg))
				arg++
				continue
			}
			sb.WriteRune(r)
		}
	}

	if suffix != "" {
		sb.WriteString(" ")
		sb.WriteString(suffix)
	}

	return sb.String(), b.args
}
