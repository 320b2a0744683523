package models

import (
	"encoding/json"
	"testing"
)

func TestNewOrderBookSideSumsCounts(t *testing.T) {
	side := NewOrderBookSide([]PriceLevel{{Price: 101, Count: 2.5}, {Price: 102, Count: 7.5}})
	if side.TotalCount != 10 {
		t.Fatalf("TotalCount = %v, want 10", side.TotalCount)
	}
	if !side.Drawable() {
		t.Fatal("side with levels and total should be drawable")
	}
}

func TestDrawableGuards(t *testing.T) {
	var missing *OrderBookSide
	cases := map[string]*OrderBookSide{
		"nil":        missing,
		"empty":      {TotalCount: 10},
		"zero total": {Items: []PriceLevel{{Price: 1, Count: 0}}},
	}
	for name, side := range cases {
		if side.Drawable() {
			t.Fatalf("%s: expected not drawable", name)
		}
	}
}

func TestAsksBidsSnapshotComplete(t *testing.T) {
	side := NewOrderBookSide([]PriceLevel{{Price: 1, Count: 1}})
	if (AsksBidsSnapshot{Asks: side}).Complete() {
		t.Fatal("asks only must not be complete")
	}
	if !(AsksBidsSnapshot{Asks: side, Bids: side}).Complete() {
		t.Fatal("both sides should be complete")
	}
}

func TestAsksBidsSnapshotJSONShape(t *testing.T) {
	var snap AsksBidsSnapshot
	payload := `{"asks":{"items":[{"price":105,"count":10}],"totalCount":10}}`
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.Bids != nil || snap.Asks == nil || snap.Asks.Items[0].Price != 105 || snap.Asks.TotalCount != 10 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
