package core

// CategoryAmount is an amount aggregated under a category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// FinanceSummary holds the community-wide totals of the finance view.
type FinanceSummary struct {
	TotalIncome        Money `json:"totalIncome"`
	AccountsReceivable Money `json:"accountsReceivable"`
	TotalExpenses      Money `json:"totalExpenses"`
	NetBalance         Money `json:"netBalance"`
}

// Summarize computes income from paid transactions, receivables from the
// unpaid ones and the balance after expenses.
func Summarize(txs []Transaction, expenses []Expense) FinanceSummary {
	var s FinanceSummary
	for _, t := range txs {
		if t.Status == TxPaid {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		} else {
			s.AccountsReceivable = s.AccountsReceivable.Add(t.Amount)
		}
	}
	for _, e := range expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
	}
	s.NetBalance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}
