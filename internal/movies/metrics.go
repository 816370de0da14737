package movies

// Profit is net revenue minus budget.
func Profit(net, budget float64) float64 {
	return net - budget
}

// Margin is profit as a percentage of budget. A zero budget gives ±Inf, or NaN
// when profit is also zero; callers filter non-finite values themselves.
func Margin(profit, budget float64) float64 {
	return profit / budget * 100
}

// Derive returns a new table with Profit and Margin filled in. t is not modified.
func Derive(t *Table) *Table {
	out := &Table{records: make([]MovieRecord, len(t.records)), derived: true}
	for i, r := range t.records {
		r.Profit = Profit(r.Net, r.Budget)
		r.Margin = Margin(r.Profit, r.Budget)
		out.records[i] = r
	}
	return out
}
