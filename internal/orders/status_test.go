package orders

import "testing"

func TestNormalizeStatusSynonyms(t *testing.T) {
	cases := map[string]string{
		"em_preparo": "preparing",
		"preparando": "preparing",
		"pronto":     "preparing",
		"em_entrega": "out_for_delivery",
		"em rota":    "out_for_delivery",
		"assigned":   "out_for_delivery",
		"finalizado": "done",
		"entregue":   "done",
		"cancelado":  "cancelled",
		"em_aberto":  "open",
		"pendente":   "open",
		"OPEN":       "open",
		"Finalizado": "done",
	}

	for input, want := range cases {
		if got := NormalizeStatus(input); got != want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeStatusUnknownPassesThrough(t *testing.T) {
	for _, input := range []string{"xyz", "???", "awaiting_payment"} {
		if got := NormalizeStatus(input); got != input {
			t.Errorf("NormalizeStatus(%q) = %q, want pass-through", input, got)
		}
	}
}

func TestNormalizeStatusEmptyBecomesOpen(t *testing.T) {
	if got := NormalizeStatus(""); got != "open" {
		t.Errorf("NormalizeStatus(\"\") = %q, want \"open\"", got)
	}
}

func TestNormalizeStatusIdempotent(t *testing.T) {
	inputs := []string{
		"em_preparo", "finalizado", "cancelado", "em_entrega", "pendente",
		"open", "preparing", "out_for_delivery", "done", "cancelled",
		"xyz", "???",
	}
	for _, input := range inputs {
		once := NormalizeStatus(input)
		if twice := NormalizeStatus(once); twice != once {
			t.Errorf("NormalizeStatus not idempotent for %q: %q -> %q", input, once, twice)
		}
	}
}
