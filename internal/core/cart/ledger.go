// Package cart keeps per-product quantities of a shopping cart.
package cart

import (
	"slices"

	"github.com/niksmo/local-market/internal/core/domain"
)

// A PriceLookup resolves the current catalog price of a product.
type PriceLookup interface {
	Price(productID string) (int64, bool)
}

// A Ledger maps product ids to positive quantities.
//
// A quantity is never stored as zero: dropping to zero deletes the entry.
// Ledger is not safe for concurrent use.
type Ledger struct {
	qty      map[string]int
	order    []string
	onChange func([]string)
}

func NewLedger() *Ledger {
	return &Ledger{qty: make(map[string]int)}
}

// OnChange sets the observer called with the flattened list after every
// mutation, before the mutating method returns.
func (l *Ledger) OnChange(fn func(items []string)) {
	l.onChange = fn
}

// Increment adds one unit of id, creating the entry if absent.
func (l *Ledger) Increment(id string) {
	if _, ok := l.qty[id]; !ok {
		l.order = append(l.order, id)
	}
	l.qty[id]++
	l.notify()
}

// Decrement removes one unit of id. It is a no-op for absent ids.
func (l *Ledger) Decrement(id string) {
	n, ok := l.qty[id]
	if !ok {
		return
	}
	if n <= 1 {
		l.delete(id)
	} else {
		l.qty[id] = n - 1
	}
	l.notify()
}

// Remove deletes all units of id.
func (l *Ledger) Remove(id string) {
	if _, ok := l.qty[id]; !ok {
		return
	}
	l.delete(id)
	l.notify()
}

// Checkout clears the ledger and returns the entries it held.
// It always succeeds, on an empty ledger too.
func (l *Ledger) Checkout() []domain.CartLine {
	lines := l.Items()
	l.qty = make(map[string]int)
	l.order = nil
	l.notify()
	return lines
}

func (l *Ledger) Quantity(id string) int {
	return l.qty[id]
}

// Len is the number of distinct products.
func (l *Ledger) Len() int {
	return len(l.qty)
}

// Units is the number of product units across all entries.
func (l *Ledger) Units() (n int) {
	for _, q := range l.qty {
		n += q
	}
	return n
}

// Items returns the entries in first-added order.
func (l *Ledger) Items() []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(l.order))
	for _, id := range l.order {
		lines = append(lines, domain.CartLine{ProductID: id, Quantity: l.qty[id]})
	}
	return lines
}

// Flatten materializes the ledger as one id per unit, grouped by product
// in first-added order.
func (l *Ledger) Flatten() []string {
	out := make([]string, 0, l.Units())
	for _, id := range l.order {
		for range l.qty[id] {
			out = append(out, id)
		}
	}
	return out
}

// Total sums price*quantity using the prices at call time.
// Products unknown to prices contribute nothing.
func (l *Ledger) Total(prices PriceLookup) (total int64) {
	for id, q := range l.qty {
		price, ok := prices.Price(id)
		if !ok {
			continue
		}
		total += price * int64(q)
	}
	return total
}

func (l *Ledger) delete(id string) {
	delete(l.qty, id)
	if i := slices.Index(l.order, id); i >= 0 {
		l.order = slices.Delete(l.order, i, i+1)
	}
}

func (l *Ledger) notify() {
	if l.onChange != nil {
		l.onChange(l.Flatten())
	}
}
