package handler

import (
	"time"

	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/display"
	"github.com/rustyeddy/debtbook/ledger"
)

// AddDebtorRequest creates a debtor. AmountText is accepted the way the
// entry field is typed ("1 500 DA") and is used when Amount is zero.
type AddDebtorRequest struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	AmountText string  `json:"amount_text"`
}

func (r AddDebtorRequest) amount() float64 {
	if r.Amount == 0 && r.AmountText != "" {
		return display.ParseAmount(r.AmountText)
	}
	return r.Amount
}

// AdjustRequest applies a signed delta, e.g. one of the quick steps.
type AdjustRequest struct {
	Delta float64 `json:"delta"`
}

// CustomAmountRequest submits the custom entry for a debtor.
type CustomAmountRequest struct {
	Amount     float64 `json:"amount"`
	AmountText string  `json:"amount_text"`
	Increase   bool    `json:"increase"`
}

func (r CustomAmountRequest) amount() float64 {
	if r.Amount == 0 && r.AmountText != "" {
		return display.ParseAmount(r.AmountText)
	}
	return r.Amount
}

type RenameRequest struct {
	Name string `json:"name"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

// DebtorResponse is a record plus its display form.
type DebtorResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Amount       float64   `json:"amount"`
	Display      string    `json:"display"`
	Paid         bool      `json:"paid"`
	CreatedAt    time.Time `json:"date"`
	LastModified time.Time `json:"lastModified"`
}

// ListResponse is the filtered list with its summary and the whole-ledger
// figures next to it.
type ListResponse struct {
	Debtors      []DebtorResponse `json:"debtors"`
	Summary      ledger.Summary   `json:"summary"`
	Query        string           `json:"query"`
	Editing      string           `json:"editing,omitempty"`
	Total        float64          `json:"total"`
	TotalDisplay string           `json:"total_display"`
	Count        int              `json:"count"`
	Empty        string           `json:"empty,omitempty"`
}

// AdjustResponse reports the updated record and whether it was paid off.
type AdjustResponse struct {
	Debtor  DebtorResponse `json:"debtor"`
	PaidOff bool           `json:"paid_off"`
}

type TotalResponse struct {
	Total   float64 `json:"total"`
	Display string  `json:"display"`
	Count   int     `json:"count"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

// StatusResponse describes the persistence state.
type StatusResponse struct {
	LastSave     *time.Time `json:"last_save,omitempty"`
	SinceSeconds float64    `json:"since_seconds,omitempty"`
	SavedBadge   bool       `json:"saved_badge"`
	Pending      bool       `json:"pending"`
	Count        int        `json:"count"`
	Total        float64    `json:"total"`
}

func mapDebtor(r debtor.Record, f display.Formatter) DebtorResponse {
	return DebtorResponse{
		ID:           r.ID,
		Name:         r.Name,
		Amount:       r.Amount,
		Display:      f.Format(r.Amount),
		Paid:         r.Amount == 0,
		CreatedAt:    r.CreatedAt,
		LastModified: r.LastModified,
	}
}

func mapList(li display.List, f display.Formatter) ListResponse {
	out := ListResponse{
		Debtors:      make([]DebtorResponse, 0, len(li.View)),
		Summary:      li.Summary,
		Query:        li.Query,
		Editing:      li.Editing,
		Total:        li.Total,
		TotalDisplay: f.Format(li.Total),
		Count:        li.Count,
	}
	for _, r := range li.View {
		out.Debtors = append(out.Debtors, mapDebtor(r, f))
	}
	if len(li.View) == 0 {
		out.Empty = li.Empty()
	}
	return out
}
