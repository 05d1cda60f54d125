// Package reports builds the finance reports of the community and exports
// them to spreadsheets.
package reports

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"condo/internal/access"
	"condo/internal/core"
	"condo/internal/sheets"
)

type Kind string

const (
	KindOwnerStatement Kind = "estado-de-cuenta"
	KindIncomeExpenses Kind = "ingresos-egresos"
	KindDelinquency    Kind = "morosidad"
)

// Kinds lists every report in display order.
var Kinds = []Kind{KindOwnerStatement, KindIncomeExpenses, KindDelinquency}

var ErrUnknownKind = errors.New("unknown report")

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Title is the sheet name a report is exported under.
func (k Kind) Title() string {
	switch k {
	case KindOwnerStatement:
		return "Estado de cuenta"
	case KindIncomeExpenses:
		return "Ingresos vs Egresos"
	case KindDelinquency:
		return "Morosidad"
	}
	return string(k)
}

// PropertyStatement is every charge of one property, newest first.
type PropertyStatement struct {
	PropertyID   string             `json:"propertyId"`
	LotNumber    int                `json:"lotNumber"`
	Address      string             `json:"address"`
	Owner        string             `json:"owner"`
	Transactions []core.Transaction `json:"transactions"`
	Paid         core.Money         `json:"paid"`
	BalanceDue   core.Money         `json:"balanceDue"`
}

// OwnerStatement returns one statement per property, in lot order.
func OwnerStatement(snap core.Snapshot) []PropertyStatement {
	out := make([]PropertyStatement, 0, len(snap.Properties))
	for _, p := range snap.Properties {
		st := PropertyStatement{
			PropertyID:   p.ID,
			LotNumber:    p.LotNumber,
			Address:      p.Address,
			Owner:        ownerName(snap, p.OwnerID),
			Transactions: []core.Transaction{},
		}
		for _, t := range snap.Transactions {
			if t.PropertyID != p.ID {
				continue
			}
			st.Transactions = append(st.Transactions, t)
			if t.Open() {
				st.BalanceDue = st.BalanceDue.Add(t.Amount)
			} else {
				st.Paid = st.Paid.Add(t.Amount)
			}
		}
		access.SortNewestFirst(st.Transactions, func(t core.Transaction) string { return t.Date })
		out = append(out, st)
	}
	slices.SortStableFunc(out, func(a, b PropertyStatement) int { return cmp.Compare(a.LotNumber, b.LotNumber) })
	return out
}

// IncomeExpenses is the community balance with expenses by category.
type IncomeExpenses struct {
	core.FinanceSummary
	ByCategory []core.CategoryAmount `json:"byCategory"`
}

// IncomeVsExpenses totals the finances. Categories are ordered by amount,
// largest first.
func IncomeVsExpenses(snap core.Snapshot) IncomeExpenses {
	r := IncomeExpenses{FinanceSummary: core.Summarize(snap.Transactions, snap.Expenses)}
	idx := map[string]int{}
	for _, e := range snap.Expenses {
		i, ok := idx[e.Category]
		if !ok {
			i = len(r.ByCategory)
			idx[e.Category] = i
			r.ByCategory = append(r.ByCategory, core.CategoryAmount{Name: e.Category})
		}
		r.ByCategory[i].Amount = r.ByCategory[i].Amount.Add(e.Amount)
	}
	slices.SortStableFunc(r.ByCategory, func(a, b core.CategoryAmount) int {
		return cmp.Compare(b.Amount.Cents, a.Amount.Cents)
	})
	if r.ByCategory == nil {
		r.ByCategory = []core.CategoryAmount{}
	}
	return r
}

// DelinquentProperty is a property with unpaid charges.
type DelinquentProperty struct {
	PropertyID string     `json:"propertyId"`
	LotNumber  int        `json:"lotNumber"`
	Owner      string     `json:"owner"`
	Pending    core.Money `json:"pending"`
	Overdue    core.Money `json:"overdue"`
	AmountDue  core.Money `json:"amountDue"`
	OpenItems  int        `json:"openItems"`
}

// Delinquency lists properties with pending or overdue charges, largest
// amount due first. Charges against unknown properties are grouped under
// their property id.
func Delinquency(snap core.Snapshot) []DelinquentProperty {
	idx := map[string]int{}
	var out []DelinquentProperty
	for _, t := range snap.Transactions {
		if !t.Open() {
			continue
		}
		i, ok := idx[t.PropertyID]
		if !ok {
			d := DelinquentProperty{PropertyID: t.PropertyID}
			if p, found := snap.Property(t.PropertyID); found {
				d.LotNumber = p.LotNumber
				d.Owner = ownerName(snap, p.OwnerID)
			}
			i = len(out)
			idx[t.PropertyID] = i
			out = append(out, d)
		}
		d := &out[i]
		if t.Status == core.TxOverdue {
			d.Overdue = d.Overdue.Add(t.Amount)
		} else {
			d.Pending = d.Pending.Add(t.Amount)
		}
		d.AmountDue = d.AmountDue.Add(t.Amount)
		d.OpenItems++
	}
	slices.SortStableFunc(out, func(a, b DelinquentProperty) int {
		return cmp.Compare(b.AmountDue.Cents, a.AmountDue.Cents)
	})
	if out == nil {
		out = []DelinquentProperty{}
	}
	return out
}

func ownerName(snap core.Snapshot, ownerID string) string {
	if o, ok := snap.Owner(ownerID); ok {
		return o.Name
	}
	return ""
}

// Table renders the report of kind k as a sheet.
func Table(k Kind, snap core.Snapshot) (sheets.Table, error) {
	switch k {
	case KindOwnerStatement:
		t := sheets.Table{Name: k.Title(), Header: []string{"Lote", "Propietario", "Fecha", "Concepto", "Estado", "Monto", "Saldo pendiente"}}
		for _, st := range OwnerStatement(snap) {
			lot := strconv.Itoa(st.LotNumber)
			for _, tx := range st.Transactions {
				t.Rows = append(t.Rows, []string{lot, st.Owner, tx.Date, string(tx.Type), string(tx.Status), tx.Amount.String(), ""})
			}
			t.Rows = append(t.Rows, []string{lot, st.Owner, "", "Total", "", st.Paid.Add(st.BalanceDue).String(), st.BalanceDue.String()})
		}
		return t, nil
	case KindIncomeExpenses:
		r := IncomeVsExpenses(snap)
		t := sheets.Table{Name: k.Title(), Header: []string{"Concepto", "Monto"}}
		t.Rows = append(t.Rows,
			[]string{"Ingresos totales", r.TotalIncome.String()},
			[]string{"Cuentas por cobrar", r.AccountsReceivable.String()},
			[]string{"Gastos totales", r.TotalExpenses.String()},
			[]string{"Balance neto", r.NetBalance.String()},
		)
		for _, c := range r.ByCategory {
			t.Rows = append(t.Rows, []string{"Gasto: " + c.Name, c.Amount.String()})
		}
		return t, nil
	case KindDelinquency:
		t := sheets.Table{Name: k.Title(), Header: []string{"Lote", "Propietario", "Pendiente", "Vencido", "Adeudo total", "Cargos abiertos"}}
		for _, d := range Delinquency(snap) {
			t.Rows = append(t.Rows, []string{
				strconv.Itoa(d.LotNumber), d.Owner, d.Pending.String(), d.Overdue.String(), d.AmountDue.String(), strconv.Itoa(d.OpenItems),
			})
		}
		return t, nil
	}
	return sheets.Table{}, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}
