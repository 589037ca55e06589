package order

import (
	"regexp"
	"testing"
)

var orderIDPattern = regexp.MustCompile(`^ORD-\d{13,}-[0-9A-Z]{5}$`)

func TestNewOrderID_Format(t *testing.T) {
	id := NewOrderID()
	if !orderIDPattern.MatchString(id) {
		t.Fatalf("id %q does not match expected pattern", id)
	}
}

func TestNewOrderID_RapidGenerationIsUnique(t *testing.T) {
	seen := make(map[string]struct{}, 200)
	for i := 0; i < 200; i++ {
		id := NewOrderID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}
