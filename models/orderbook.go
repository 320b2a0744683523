package models

// PriceLevel is one row of the order book. Count is the volume resting at
// Price, not a running total.
type PriceLevel struct {
	Price float64 `json:"price" yaml:"price"`
	Count float64 `json:"count" yaml:"count"`
}

// OrderBookSide holds one side of the book ordered by distance from the best
// price, nearest first. TotalCount normalises horizontal placement and is
// expected to be at least the sum of the item counts.
type OrderBookSide struct {
	Items      []PriceLevel `json:"items" yaml:"items"`
	TotalCount float64      `json:"totalCount" yaml:"total_count"`
}

// NewOrderBookSide builds a side whose TotalCount is the sum of the level
// counts.
func NewOrderBookSide(levels []PriceLevel) *OrderBookSide {
	side := &OrderBookSide{Items: levels}
	side.TotalCount = side.SumCount()
	return side
}

// SumCount adds up the level counts.
func (s *OrderBookSide) SumCount() float64 {
	var sum float64
	for _, l := range s.Items {
		sum += l.Count
	}
	return sum
}

// Drawable reports whether the side has levels and a usable denominator.
func (s *OrderBookSide) Drawable() bool {
	return s != nil && len(s.Items) > 0 && s.TotalCount > 0
}

// AsksBidsSnapshot is the depth data for one frame. Either side may be
// missing.
type AsksBidsSnapshot struct {
	Asks *OrderBookSide `json:"asks,omitempty" yaml:"asks,omitempty"`
	Bids *OrderBookSide `json:"bids,omitempty" yaml:"bids,omitempty"`
}

// Complete reports whether both sides are present. The depth chart is only
// drawn for complete snapshots.
func (s AsksBidsSnapshot) Complete() bool {
	return s.Asks != nil && s.Bids != nil
}
