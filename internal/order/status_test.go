package order

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusProcessing, StatusPreparing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusDelivered, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusPreparing, StatusShipped, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},

		// backward moves are rejected
		{StatusShipped, StatusProcessing, false},
		{StatusPreparing, StatusProcessing, false},
		{StatusDelivered, StatusShipped, false},

		// terminal states accept nothing, cancellation included
		{StatusDelivered, StatusPreparing, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusCancelled, StatusDelivered, false},

		// self transitions are not moves
		{StatusProcessing, StatusProcessing, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("Shipped")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != StatusShipped {
		t.Fatalf("got %s", st)
	}

	if _, err := ParseStatus("Completada"); err == nil {
		t.Fatal("expected error for legacy status value")
	}
	if _, err := ParseStatus("shipped"); err == nil {
		t.Fatal("expected error for lowercase value")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Fatal("expected error for empty value")
	}
}

func TestStatusLabels(t *testing.T) {
	want := map[Status]string{
		StatusProcessing: "Procesando",
		StatusPreparing:  "Preparando",
		StatusShipped:    "Enviado",
		StatusDelivered:  "Entregado",
		StatusCancelled:  "Cancelado",
	}
	for st, label := range want {
		if got := st.Label(); got != label {
			t.Errorf("%s.Label() = %q, want %q", st, got, label)
		}
	}
}

func TestStateTransitionErrorReportsBothStates(t *testing.T) {
	err := error(&StateTransitionError{From: StatusDelivered, To: StatusPreparing})

	var terr *StateTransitionError
	if !errors.As(err, &terr) {
		t.Fatal("expected StateTransitionError")
	}
	if terr.From != StatusDelivered || terr.To != StatusPreparing {
		t.Fatalf("unexpected states in error: %+v", terr)
	}
}
