package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"finch/internal/core"
	"finch/internal/storage"
)

// incomeSourceDTO is the wire shape of an income source. Dates use the
// persisted timestamp layout; zero dates serialize as empty strings.
type incomeSourceDTO struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	Kind            string              `json:"type"`
	Frequency       string              `json:"frequency"`
	AnnualAmount    float64             `json:"amount"`
	PayDate         string              `json:"pay_date,omitempty"`
	NextPaymentDate string              `json:"next_payment_date,omitempty"`
	MonthlyTotals   core.MonthlyTotals  `json:"monthly_totals,omitempty"`
	Deductions      []deductionItemDTO  `json:"deductions"`
}

type deductionItemDTO struct {
	ID        int64   `json:"id,omitempty"`
	SourceID  int64   `json:"source_id,omitempty"`
	Name      string  `json:"name"`
	Kind      string  `json:"type"`
	Format    string  `json:"format"`
	Value     float64 `json:"value"`
	Frequency string  `json:"frequency"`
}

func toIncomeSourceDTO(s core.IncomeSource) incomeSourceDTO {
	dto := incomeSourceDTO{
		ID:            s.ID,
		Name:          s.Name,
		Kind:          string(s.Kind),
		Frequency:     string(s.Frequency),
		AnnualAmount:  s.AnnualAmount,
		MonthlyTotals: s.Totals,
		Deductions:    make([]deductionItemDTO, 0, len(s.Deductions)),
	}
	if !s.PayDate.IsZero() {
		dto.PayDate = s.PayDate.UTC().Format(core.TimeLayout)
	}
	if !s.NextPaymentDate.IsZero() {
		dto.NextPaymentDate = s.NextPaymentDate.UTC().Format(core.TimeLayout)
	}
	for _, d := range s.Deductions {
		dto.Deductions = append(dto.Deductions, deductionItemDTO{
			ID:        d.ID,
			SourceID:  d.SourceID,
			Name:      d.Name,
			Kind:      string(d.Kind),
			Format:    string(d.Format),
			Value:     d.Value,
			Frequency: string(d.Frequency),
		})
	}
	return dto
}

func (dto incomeSourceDTO) toCore() (core.IncomeSource, error) {
	s := core.IncomeSource{
		ID:           dto.ID,
		Name:         sanitizeInput(dto.Name),
		Kind:         core.IncomeKind(dto.Kind),
		Frequency:    core.PayFrequency(dto.Frequency),
		AnnualAmount: dto.AnnualAmount,
		Totals:       dto.MonthlyTotals,
	}
	if dto.PayDate != "" {
		t, err := time.Parse(core.TimeLayout, dto.PayDate)
		if err != nil {
			return core.IncomeSource{}, err
		}
		s.PayDate = t
	}
	if dto.NextPaymentDate != "" {
		t, err := time.Parse(core.TimeLayout, dto.NextPaymentDate)
		if err != nil {
			return core.IncomeSource{}, err
		}
		s.NextPaymentDate = t
	}
	for _, d := range dto.Deductions {
		s.Deductions = append(s.Deductions, core.DeductionItem{
			ID:        d.ID,
			SourceID:  d.SourceID,
			Name:      sanitizeInput(d.Name),
			Kind:      core.DeductionKind(d.Kind),
			Format:    core.DeductionFormat(d.Format),
			Value:     d.Value,
			Frequency: core.DeductionFrequency(d.Frequency),
		})
	}
	return s, nil
}

func (s *Server) handleIncomeCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sources, err := s.incomes.ListSources(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Income list error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list income sources")
			return
		}
		out := make([]incomeSourceDTO, 0, len(sources))
		for _, src := range sources {
			out = append(out, toIncomeSourceDTO(src))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var dto incomeSourceDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		src, err := dto.toCore()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		id, err := s.incomes.CreateSource(r.Context(), src)
		if err != nil {
			slog.ErrorContext(r.Context(), "Income create error", "error", err, "name", src.Name)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleIncomeItem(w http.ResponseWriter, r *http.Request) {
	id, sub, err := parseIDSuffix(r.URL.Path, "/api/income/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch sub {
	case "":
		s.serveIncomeSource(w, r, id)
	case "payment-amount":
		s.serveIncomePaymentAmount(w, r, id)
	case "next-payment-date":
		s.serveIncomeNextPaymentDate(w, r, id)
	case "adjust-total":
		s.serveIncomeAdjustTotal(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "unknown income operation")
	}
}

func (s *Server) serveIncomeSource(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		src, err := s.incomes.GetSource(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "income source not found")
				return
			}
			slog.ErrorContext(r.Context(), "Income get error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to load income source")
			return
		}
		writeJSON(w, http.StatusOK, toIncomeSourceDTO(src))

	case http.MethodPut:
		var dto incomeSourceDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		src, err := dto.toCore()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		src.ID = id
		if err := s.incomes.UpdateSource(r.Context(), src); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "income source not found")
				return
			}
			slog.ErrorContext(r.Context(), "Income update error", "error", err, "id", id)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, nil)

	case http.MethodDelete:
		if err := s.incomes.DeleteSource(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Income delete error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to delete income source")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) serveIncomePaymentAmount(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	amount, err := s.incomes.PaymentAmount(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "income source not found")
			return
		}
		slog.ErrorContext(r.Context(), "Payment amount error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to compute payment amount")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"amount": amount})
}

func (s *Server) serveIncomeNextPaymentDate(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	next, err := s.incomes.NextPaymentDate(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "income source not found")
			return
		}
		slog.ErrorContext(r.Context(), "Next payment date error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to compute next payment date")
		return
	}
	var body struct {
		NextPaymentDate string `json:"next_payment_date"`
	}
	if !next.IsZero() {
		body.NextPaymentDate = next.UTC().Format(core.TimeLayout)
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) serveIncomeAdjustTotal(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.incomes.AdjustMonthlyTotal(r.Context(), id, body.Amount); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "income source not found")
			return
		}
		slog.ErrorContext(r.Context(), "Adjust total error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to adjust monthly total")
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// handleSweep triggers a due-payment sweep on demand.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	processed, err := s.sweeper.ProcessDuePayments(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Sweep error", "error", err)
		writeError(w, http.StatusInternalServerError, "sweep failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"processed": processed})
}
