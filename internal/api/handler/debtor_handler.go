package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/debtbook/backup"
	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/display"
	"github.com/rustyeddy/debtbook/intent"
	"github.com/rustyeddy/debtbook/internal/api/middleware"
	"github.com/rustyeddy/debtbook/journal"
	"github.com/rustyeddy/debtbook/ledger"
	"github.com/rustyeddy/debtbook/mirror"
	"github.com/rustyeddy/debtbook/notify"
)

// DebtorHandler serves the ledger over HTTP. Every mutating request goes
// through an intent.Dispatcher whose notifications are returned with the
// response.
type DebtorHandler struct {
	ledger    *ledger.Ledger
	formatter display.Formatter
	logger    *slog.Logger
	now       func() time.Time
}

// NewDebtorHandler creates a new debtor handler
func NewDebtorHandler(logger *slog.Logger, l *ledger.Ledger, f display.Formatter) *DebtorHandler {
	return &DebtorHandler{
		ledger:    l,
		formatter: f,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *DebtorHandler) dispatch(c *gin.Context, in intent.Intent, confirm intent.Confirmer) (intent.Outcome, []notify.Notice, error) {
	rec := middleware.RequestNotices(c)
	out, err := intent.NewDispatcher(h.ledger, confirm, rec).Dispatch(in)
	return out, rec.Drain(), err
}

func (h *DebtorHandler) fail(c *gin.Context, err error, notes []notify.Notice) {
	switch {
	case debtor.IsValidation(err):
		RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), notes)
	case debtor.IsNotFound(err):
		RespondNotFound(c, err.Error(), notes)
	case mirror.IsSaveError(err):
		// The change is applied in memory; only the store is behind.
		h.logger.Error("save failed", "path", c.Request.URL.Path, "error", err)
		RespondWithError(c, http.StatusServiceUnavailable, "SAVE_FAILED", err.Error(), notes)
	default:
		h.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		RespondInternalError(c, notes)
	}
}

// List returns the current view. A search parameter filters this request
// only; the ledger's own query is changed with Search.
func (h *DebtorHandler) List(c *gin.Context) {
	li := display.Snapshot(h.ledger)
	if q, ok := c.GetQuery("search"); ok {
		recs := h.ledger.Records()
		li.View = ledger.Filter(recs, q)
		li.Summary = ledger.Summarize(li.View)
		li.Query = ledger.NormalizeQuery(q)
	}
	RespondOK(c, mapList(li, h.formatter), nil)
}

func (h *DebtorHandler) Get(c *gin.Context) {
	rec, err := h.ledger.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	RespondOK(c, mapDebtor(rec, h.formatter), nil)
}

func (h *DebtorHandler) Add(c *gin.Context) {
	var req AddDebtorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error(), nil)
		return
	}

	out, notes, err := h.dispatch(c, intent.Intent{Kind: intent.Add, Name: req.Name, Amount: req.amount()}, nil)
	if err != nil {
		h.fail(c, err, notes)
		return
	}
	RespondCreated(c, mapDebtor(*out.Record, h.formatter), notes)
}

// Adjust applies a signed delta to one debtor.
func (h *DebtorHandler) Adjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error(), nil)
		return
	}

	out, notes, err := h.dispatch(c, intent.Intent{Kind: intent.Adjust, ID: c.Param("id"), Amount: req.Delta}, nil)
	if err != nil {
		h.fail(c, err, notes)
		return
	}
	RespondOK(c, AdjustResponse{Debtor: mapDebtor(*out.Record, h.formatter), PaidOff: out.PaidOff}, notes)
}

func (h *DebtorHandler) BeginCustom(c *gin.Context) {
	_, notes, err := h.dispatch(c, intent.Intent{Kind: intent.BeginCustom, ID: c.Param("id")}, nil)
	if err != nil {
		h.fail(c, err, notes)
		return
	}
	RespondOK(c, gin.H{"editing": c.Param("id")}, notes)
}

func (h *DebtorHandler) SubmitCustom(c *gin.Context) {
	var req CustomAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error(), nil)
		return
	}

	in := intent.Intent{Kind: intent.SubmitCustom, ID: c.Param("id"), Amount: req.amount(), Increase: req.Increase}
	out, notes, err := h.dispatch(c, in, nil)
	if err != nil {
		h.fail(c, err, notes)
		return
	}
	RespondOK(c, AdjustResponse{Debtor: mapDebtor(*out.Record, h.formatter), PaidOff: out.PaidOff}, notes)
}

func (h *DebtorHandler) CancelCustom(c *gin.Context) {
	out, notes, _ := h.dispatch(c, intent.Intent{Kind: intent.CancelCustom}, nil)
	RespondOK(c, gin.H{"cancelled": out.Applied}, notes)
}

func (h *DebtorHandler) Rename(c *gin.Context) {
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error(), nil)
		return
	}

	out, notes, err := h.dispatch(c, intent.Intent{Kind: intent.Rename, ID: c.Param("id"), Name: req.Name}, nil)
	if err != nil {
		h.fail(c, err, notes)
		return
	}
	RespondOK(c, gin.H{"debtor": mapDebtor(*out.Record, h.formatter), "changed": out.Applied}, notes)
}

// Delete removes one debtor. The DELETE request is the confirmation.
func (h *DebtorHandler) Delete(c *gin.Context) {
	_, notes, err := h.dispatch(c, intent.Intent{Kind: intent.Delete, ID: c.Param("id")}, intent.AlwaysConfirm)
	if err != nil {
		h.fail(c, err, notes)
		return
	}
	RespondOK(c, gin.H{"deleted": c.Param("id")}, notes)
}

// Clear removes every debtor when called with confirm=true.
func (h *DebtorHandler) Clear(c *gin.Context) {
	confirmed := intent.ConfirmFunc(func(string) bool {
		return c.Query("confirm") == "true"
	})

	out, notes, err := h.dispatch(c, intent.Intent{Kind: intent.ClearAll}, confirmed)
	if err != nil {
		h.fail(c, err, notes)
		return
	}
	if !out.Applied {
		RespondWithError(c, http.StatusBadRequest, "CONFIRMATION_REQUIRED", "Repeat with confirm=true to delete all data", notes)
		return
	}
	RespondOK(c, gin.H{"cleared": true}, notes)
}

// Search sets the ledger's query, which List uses when it has no search
// parameter of its own.
func (h *DebtorHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error(), nil)
		return
	}
	_, notes, _ := h.dispatch(c, intent.Intent{Kind: intent.Search, Query: req.Query}, nil)
	RespondOK(c, mapList(display.Snapshot(h.ledger), h.formatter), notes)
}

// Escape closes the custom entry, or failing that clears the query.
func (h *DebtorHandler) Escape(c *gin.Context) {
	out, notes, _ := h.dispatch(c, intent.Intent{Kind: intent.Escape}, nil)
	RespondOK(c, gin.H{"applied": out.Applied}, notes)
}

func (h *DebtorHandler) Total(c *gin.Context) {
	total := h.ledger.Total()
	RespondOK(c, TotalResponse{Total: total, Display: h.formatter.Format(total), Count: h.ledger.Len()}, nil)
}

// Import replaces the whole ledger with a backup file posted as the body.
func (h *DebtorHandler) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error(), nil)
		return
	}

	rec := middleware.RequestNotices(c)
	recs, err := backup.Parse(data, h.now())
	if err == nil {
		err = h.ledger.ReplaceAll(recs)
	}
	if err != nil {
		h.logger.Warn("import failed", "error", err)
		rec.Notify(err.Error(), notify.Error)
		h.fail(c, err, rec.Drain())
		return
	}

	rec.Notify(fmt.Sprintf("Imported %d debtors.", len(recs)), notify.Success)
	RespondOK(c, ImportResponse{Imported: len(recs)}, rec.Drain())
}

// Export downloads the ledger as a JSON backup or, with format=csv, a
// spreadsheet.
func (h *DebtorHandler) Export(c *gin.Context) {
	now := h.now()
	recs := h.ledger.Records()
	name := backup.FileName(now)

	switch c.DefaultQuery("format", "json") {
	case "json":
		data, err := backup.Marshal(backup.NewEnvelope(recs, now))
		if err != nil {
			h.fail(c, err, nil)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, "application/json", data)
	case "csv":
		var buf bytes.Buffer
		if err := journal.WriteCSV(&buf, recs); err != nil {
			h.fail(c, err, nil)
			return
		}
		name = strings.TrimSuffix(name, ".json") + ".csv"
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	default:
		RespondBadRequest(c, "format must be json or csv", nil)
	}
}

func (h *DebtorHandler) Save(c *gin.Context) {
	_, notes, err := h.dispatch(c, intent.Intent{Kind: intent.Save}, nil)
	if err != nil {
		h.fail(c, err, notes)
		return
	}
	st, err := h.status()
	if err != nil {
		h.fail(c, err, notes)
		return
	}
	RespondOK(c, st, notes)
}

// Composing tells the ledger a free-text edit is in progress.
func (h *DebtorHandler) Composing(c *gin.Context) {
	_, notes, _ := h.dispatch(c, intent.Intent{Kind: intent.Composing}, nil)
	RespondWithData(c, http.StatusAccepted, gin.H{"pending": h.ledger.Mirror().Pending()}, notes)
}

// Hidden is the client's "going away" signal: flush now.
func (h *DebtorHandler) Hidden(c *gin.Context) {
	_, notes, err := h.dispatch(c, intent.Intent{Kind: intent.Hidden}, nil)
	if err != nil {
		h.fail(c, err, notes)
		return
	}
	RespondOK(c, gin.H{"flushed": h.ledger.Len() > 0}, notes)
}

// Status reports the last save and whether a debounced flush is waiting.
func (h *DebtorHandler) Status(c *gin.Context) {
	st, err := h.status()
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	RespondOK(c, st, nil)
}

func (h *DebtorHandler) status() (StatusResponse, error) {
	m := h.ledger.Mirror()
	badge, _ := m.Saved()
	resp := StatusResponse{
		SavedBadge: badge,
		Pending:    m.Pending(),
		Count:      h.ledger.Len(),
		Total:      h.ledger.Total(),
	}

	info, ok, err := m.LastSaved()
	if err != nil {
		return StatusResponse{}, err
	}
	if ok {
		resp.LastSave = &info.LastSave
		resp.SinceSeconds = info.Since.Seconds()
	}
	return resp, nil
}
