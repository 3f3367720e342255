package capgains

import (
	"errors"
	"testing"
)

func TestLotBookAddValidation(t *testing.T) {
	book := NewLotBook()
	tests := []struct {
		name string
		lot  Lot
	}{
		{"no security", Lot{Date: day("2024-01-01"), Quantity: Q(1), Price: usd(1)}},
		{"zero quantity", Lot{Security: "AAPL", Date: day("2024-01-01"), Quantity: Q(0), Price: usd(1)}},
		{"negative quantity", Lot{Security: "AAPL", Date: day("2024-01-01"), Quantity: Q(-3), Price: usd(1)}},
		{"fractional quantity", Lot{Security: "AAPL", Date: day("2024-01-01"), Quantity: Q(1.5), Price: usd(1)}},
	}
	for _, tt := range tests {
		if err := book.Add(tt.lot); err == nil {
			t.Errorf("%s: Add should fail", tt.name)
		}
	}
}

func TestLotBookChronologicalOrder(t *testing.T) {
	book := NewLotBook()
	if err := book.Add(Lot{Security: "AAPL", Date: day("2024-01-05"), Quantity: Q(1), Price: usd(1)}); err != nil {
		t.Fatal(err)
	}
	if err := book.Add(Lot{Security: "AAPL", Date: day("2024-01-01"), Quantity: Q(1), Price: usd(1)}); err == nil {
		t.Error("older lot after newer lot should fail")
	}
	// Another security has its own queue, an older date there is fine.
	if err := book.Add(Lot{Security: "MSFT", Date: day("2024-01-01"), Quantity: Q(1), Price: usd(1)}); err != nil {
		t.Errorf("independent security: %v", err)
	}
}

func TestLotBookConsumeFIFO(t *testing.T) {
	book := usdBook()

	fragments, err := book.Consume("AAPL", Q(15))
	if err != nil {
		t.Fatal(err)
	}
	if len(fragments) != 2 {
		t.Fatalf("got %d fragments, want 2", len(fragments))
	}
	// Oldest shares leave first, the second lot is split.
	if !fragments[0].Quantity.Equal(Q(10)) || !fragments[0].Price.Equal(usd(100)) || fragments[0].Date != day("2024-01-01") {
		t.Errorf("fragment 0 = %+v", fragments[0])
	}
	if !fragments[1].Quantity.Equal(Q(5)) || !fragments[1].Price.Equal(usd(120)) || fragments[1].Date != day("2024-01-05") {
		t.Errorf("fragment 1 = %+v", fragments[1])
	}
	if !fragments[0].Cost().Equal(usd(1000)) || !fragments[1].Cost().Equal(usd(600)) {
		t.Errorf("costs = %s %s", fragments[0].Cost(), fragments[1].Cost())
	}

	// The split lot keeps its place with the remainder.
	if got := book.OpenQuantity("AAPL"); !got.Equal(Q(5)) {
		t.Errorf("open quantity after consume = %s", got)
	}
	rest, err := book.Consume("AAPL", Q(5))
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || !rest[0].Price.Equal(usd(120)) {
		t.Errorf("remainder fragments = %+v", rest)
	}
	if got := book.OpenQuantity("AAPL"); !got.IsZero() {
		t.Errorf("book should be empty, open = %s", got)
	}
}

func TestLotBookConsumeUnknown(t *testing.T) {
	book := usdBook()
	_, err := book.Consume("TSLA", Q(1))
	var unknown *UnknownPositionError
	if !errors.As(err, &unknown) || unknown.Security != "TSLA" {
		t.Errorf("got %v, want UnknownPositionError for TSLA", err)
	}
}

func TestLotBookConsumeInsufficientLeavesBookUntouched(t *testing.T) {
	book := usdBook()
	_, err := book.Consume("AAPL", Q(25))
	var insufficient *InsufficientQuantityError
	if !errors.As(err, &insufficient) {
		t.Fatalf("got %v, want InsufficientQuantityError", err)
	}
	if !insufficient.Requested.Equal(Q(25)) || !insufficient.Available.Equal(Q(20)) {
		t.Errorf("requested %s available %s", insufficient.Requested, insufficient.Available)
	}

	// The failed consume must not have eaten any lot.
	if got := book.OpenQuantity("AAPL"); !got.Equal(Q(20)) {
		t.Fatalf("open quantity after failed consume = %s, want 20", got)
	}
	fragments, err := book.Consume("AAPL", Q(15))
	if err != nil {
		t.Fatal(err)
	}
	if !fragments[0].Price.Equal(usd(100)) {
		t.Errorf("first fragment should still come from the oldest lot, got %+v", fragments[0])
	}
}

func TestLotBookPositions(t *testing.T) {
	book := NewLotBook()
	book.Add(Lot{Security: "MSFT", Date: day("2024-01-01"), Quantity: Q(3), Price: usd(400)})
	book.Add(Lot{Security: "AAPL", Date: day("2024-01-02"), Quantity: Q(7), Price: usd(100)})
	book.Consume("MSFT", Q(3))

	var securities []string
	for sec, q := range book.Positions() {
		securities = append(securities, sec)
		if sec == "AAPL" && !q.Equal(Q(7)) {
			t.Errorf("AAPL open = %s", q)
		}
	}
	// MSFT is flat now and disappears from the positions.
	if len(securities) != 1 || securities[0] != "AAPL" {
		t.Errorf("positions = %v", securities)
	}
}

func TestLotBookClone(t *testing.T) {
	book := usdBook()
	clone := book.Clone()

	if _, err := clone.Consume("AAPL", Q(20)); err != nil {
		t.Fatal(err)
	}
	if got := clone.OpenQuantity("AAPL"); !got.IsZero() {
		t.Errorf("clone open = %s", got)
	}
	if got := book.OpenQuantity("AAPL"); !got.Equal(Q(20)) {
		t.Errorf("original open = %s, the clone leaked", got)
	}
}
