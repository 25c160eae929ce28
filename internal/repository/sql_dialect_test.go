package repository

import "testing"

func TestContainsConditionByDialect(t *testing.T) {
	cond, arg := containsConditionByDialect("postgres", "order_no", " SC-2026 ")
	if cond != `order_no ILIKE ? ESCAPE '\'` || arg != "%SC-2026%" {
		t.Fatalf("unexpected postgres condition %q %q", cond, arg)
	}
	cond, arg = containsConditionByDialect("sqlite", "code", "50%_OFF")
	if cond != `code LIKE ? ESCAPE '\'` || arg != `%50\%\_OFF%` {
		t.Fatalf("unexpected sqlite condition %q %q", cond, arg)
	}
}
