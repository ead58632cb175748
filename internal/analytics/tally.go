package analytics

import (
	"sort"
	"sync"

	"ms-boxoffice/internal/models"
)

// EventTally is the running total of published sales for one event
type EventTally struct {
	EventID      int64   `json:"event_id"`
	Sales        int     `json:"sales"`
	PartialSales int     `json:"partial_sales"`
	TicketsSold  int     `json:"tickets_sold"`
	Revenue      float64 `json:"revenue"`
}

// DefaultSeenLimit bounds how many correlation ids a tally remembers.
const DefaultSeenLimit = 10000

// SalesTally accumulates sale events consumed from the message bus. A sale
// redelivered while its correlation id is among the last seenLimit ids is
// only counted once; older ids are forgotten in arrival order.
type SalesTally struct {
	mu        sync.Mutex
	events    map[int64]*EventTally
	seen      map[string]struct{}
	order     []string
	next      int
	seenLimit int
}

func NewSalesTally() *SalesTally {
	return NewSalesTallyWithLimit(DefaultSeenLimit)
}

func NewSalesTallyWithLimit(limit int) *SalesTally {
	if limit <= 0 {
		limit = DefaultSeenLimit
	}
	return &SalesTally{
		events:    make(map[int64]*EventTally),
		seen:      make(map[string]struct{}, limit),
		order:     make([]string, 0, limit),
		seenLimit: limit,
	}
}

// remember adds key to the seen set, evicting the oldest key when full.
func (t *SalesTally) remember(key string) {
	if len(t.order) < t.seenLimit {
		t.order = append(t.order, key)
	} else {
		delete(t.seen, t.order[t.next])
		t.order[t.next] = key
		t.next = (t.next + 1) % t.seenLimit
	}
	t.seen[key] = struct{}{}
}

// Remembered reports how many correlation ids are currently tracked.
func (t *SalesTally) Remembered() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// Record adds a sale and reports whether it was new.
func (t *SalesTally) Record(sale models.SaleEvent) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := sale.CorrelationID.String()
	if _, dup := t.seen[key]; dup {
		return false
	}
	t.remember(key)

	tally, ok := t.events[sale.EventID]
	if !ok {
		tally = &EventTally{EventID: sale.EventID}
		t.events[sale.EventID] = tally
	}
	tally.Sales++
	if sale.Outcome == models.SalePartialFailure {
		tally.PartialSales++
	}
	tally.TicketsSold += len(sale.TicketIDs)
	tally.Revenue += sale.Total
	return true
}

// Snapshot returns a copy of every tally ordered by event id.
func (t *SalesTally) Snapshot() []EventTally {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]EventTally, 0, len(t.events))
	for _, tally := range t.events {
		out = append(out, *tally)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out
}
