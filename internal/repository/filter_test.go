package repository

import (
	"reflect"
	"testing"
)

func TestWhereBuilder_Build_RendersNumberedPlaceholders(t *testing.T) {
	b := NewUserScope(7)
	b.And("exercise_type = ?", "cardio")
	b.And("date BETWEEN ? AND ?", "2026-08-01", "2026-08-20")

	query, args := b.Build("SELECT id FROM exercises", "ORDER BY date DESC")

	wantQuery := "SELECT id FROM exercises WHERE user_id = $1 AND exercise_type = $2 AND date BETWEEN $3 AND $4 ORDER BY date DESC"
	if query != wantQuery {
		t.Errorf("query = %q, want %q", query, wantQuery)
	}

	wantArgs := []interface{}{int64(7), "cardio", "2026-08-01", "2026-08-20"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestWhereBuilder_AndIf_SkipsFalseConditions(t *testing.T) {
	b := NewUserScope(7)
	keyword := ""
	exerciseType := "cardio"
	b.AndIf(keyword != "", "exercise_name ILIKE ?", "%"+keyword+"%")
	b.AndIf(exerciseType != "", "exercise_type = ?", exerciseType)

	query, args := b.Build("SELECT id FROM exercises", "")

	wantQuery := "SELECT id FROM exercises WHERE user_id = $1 AND exercise_type = $2"
	if query != wantQuery {
		t.Errorf("query = %q, want %q", query, wantQuery)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want 2 entries", args)
	}
}

func TestWhereBuilder_NoSuffix(t *testing.T) {
	b := NewUserScope(7)

	query, _ := b.Build("DELETE FROM exercises", "")

	want := "DELETE FROM exercises WHERE user_id = $1"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
}

func TestWhereBuilder_And_PanicsOnArgMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for placeholder/arg count mismatch")
		}
	}()

	b := NewUserScope(7)
	b.And("date BETWEEN ? AND ?", "2026-08-01")
}
