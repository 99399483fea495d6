package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"finch/internal/core"
)

type accountDTO struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Kind           string  `json:"type"`
	WalletAddr     string  `json:"wallet_address,omitempty"`
	Balance        float64 `json:"balance"`
	BalanceUpdated string  `json:"balance_updated,omitempty"`
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts, err := s.assets.ListAccounts(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Account list error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list accounts")
			return
		}
		out := make([]accountDTO, 0, len(accounts))
		for _, a := range accounts {
			dto := accountDTO{ID: a.ID, Name: a.Name, Kind: a.Kind, WalletAddr: a.WalletAddr, Balance: a.Balance}
			if !a.BalanceUpdated.IsZero() {
				dto.BalanceUpdated = a.BalanceUpdated.UTC().Format(core.TimeLayout)
			}
			out = append(out, dto)
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var dto accountDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		a := core.Account{
			Name:           sanitizeInput(dto.Name),
			Kind:           sanitizeInput(dto.Kind),
			WalletAddr:     sanitizeInput(dto.WalletAddr),
			Balance:        dto.Balance,
			BalanceUpdated: time.Now(),
		}
		if err := a.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		id, err := s.assets.CreateAccount(r.Context(), a)
		if err != nil {
			slog.ErrorContext(r.Context(), "Account create error", "error", err, "name", a.Name)
			writeError(w, http.StatusInternalServerError, "failed to create account")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAccountItem(w http.ResponseWriter, r *http.Request) {
	id, _, err := parseIDSuffix(r.URL.Path, "/api/accounts/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.assets.DeleteAccount(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Account delete error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type vehicleDTO struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	OwnershipType     string  `json:"ownership_type"`
	Value             float64 `json:"value"`
	PaymentDate       string  `json:"payment_date,omitempty"`
	RemainingPayments int     `json:"remaining_payments"`
	PaymentAmount     float64 `json:"payment_amount"`
	Description       string  `json:"description,omitempty"`
}

func vehicleFromDTO(dto vehicleDTO) core.Vehicle {
	return core.Vehicle{
		ID:                dto.ID,
		Name:              sanitizeInput(dto.Name),
		OwnershipType:     sanitizeInput(dto.OwnershipType),
		Value:             dto.Value,
		PaymentDate:       sanitizeInput(dto.PaymentDate),
		RemainingPayments: dto.RemainingPayments,
		PaymentAmount:     dto.PaymentAmount,
		Description:       sanitizeInput(dto.Description),
	}
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		vehicles, err := s.assets.ListVehicles(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Vehicle list error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list vehicles")
			return
		}
		out := make([]vehicleDTO, 0, len(vehicles))
		for _, v := range vehicles {
			out = append(out, vehicleDTO{
				ID: v.ID, Name: v.Name, OwnershipType: v.OwnershipType, Value: v.Value,
				PaymentDate: v.PaymentDate, RemainingPayments: v.RemainingPayments,
				PaymentAmount: v.PaymentAmount, Description: v.Description,
			})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var dto vehicleDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		v := vehicleFromDTO(dto)
		if err := v.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		id, err := s.assets.CreateVehicle(r.Context(), v)
		if err != nil {
			slog.ErrorContext(r.Context(), "Vehicle create error", "error", err, "name", v.Name)
			writeError(w, http.StatusInternalServerError, "failed to create vehicle")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleVehicleItem(w http.ResponseWriter, r *http.Request) {
	id, _, err := parseIDSuffix(r.URL.Path, "/api/vehicles/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var dto vehicleDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		v := vehicleFromDTO(dto)
		v.ID = id
		if err := v.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := s.assets.UpdateVehicle(r.Context(), v); err != nil {
			slog.ErrorContext(r.Context(), "Vehicle update error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to update vehicle")
			return
		}
		writeJSON(w, http.StatusOK, nil)

	case http.MethodDelete:
		if err := s.assets.DeleteVehicle(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Vehicle delete error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to delete vehicle")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type categoryDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	Kind      string `json:"type"`
	IsDefault bool   `json:"is_default"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categories, err := s.assets.ListCategories(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Category list error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list categories")
			return
		}
		out := make([]categoryDTO, 0, len(categories))
		for _, c := range categories {
			out = append(out, categoryDTO{ID: c.ID, Name: c.Name, ParentID: c.ParentID, Kind: string(c.Kind), IsDefault: c.IsDefault})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var dto categoryDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		c := core.Category{
			Name:     sanitizeInput(dto.Name),
			ParentID: dto.ParentID,
			Kind:     core.CategoryKind(dto.Kind),
		}
		if err := c.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		id, err := s.assets.CreateCategory(r.Context(), c)
		if err != nil {
			slog.ErrorContext(r.Context(), "Category create error", "error", err, "name", c.Name)
			writeError(w, http.StatusInternalServerError, "failed to create category")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCategoryItem(w http.ResponseWriter, r *http.Request) {
	id, _, err := parseIDSuffix(r.URL.Path, "/api/categories/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.assets.DeleteCategory(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Category delete error", "error", err, "id", id)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rewardDTO struct {
	ID         int64   `json:"id,omitempty"`
	Kind       string  `json:"type"`
	Amount     float64 `json:"amount"`
	CategoryID int64   `json:"category_id"`
	Frequency  string  `json:"frequency,omitempty"`
}

type paymentMethodDTO struct {
	ID             int64       `json:"id"`
	Kind           string      `json:"type"`
	Name           string      `json:"name"`
	StatementDate  int         `json:"statement_date,omitempty"`
	PaymentAccount string      `json:"payment_account,omitempty"`
	AnnualFee      float64     `json:"annual_fee,omitempty"`
	TickerSymbol   string      `json:"ticker_symbol,omitempty"`
	WalletAddress  string      `json:"wallet_address,omitempty"`
	Rewards        []rewardDTO `json:"rewards"`
}

func paymentMethodFromDTO(dto paymentMethodDTO) core.PaymentMethod {
	m := core.PaymentMethod{
		ID:             dto.ID,
		Kind:           core.PaymentMethodKind(dto.Kind),
		Name:           sanitizeInput(dto.Name),
		StatementDate:  dto.StatementDate,
		PaymentAccount: sanitizeInput(dto.PaymentAccount),
		AnnualFee:      dto.AnnualFee,
		TickerSymbol:   sanitizeInput(dto.TickerSymbol),
		WalletAddress:  sanitizeInput(dto.WalletAddress),
	}
	for _, rw := range dto.Rewards {
		m.Rewards = append(m.Rewards, core.Reward{
			ID:         rw.ID,
			Kind:       core.RewardKind(rw.Kind),
			Amount:     rw.Amount,
			CategoryID: rw.CategoryID,
			Frequency:  sanitizeInput(rw.Frequency),
		})
	}
	return m
}

func toPaymentMethodDTO(m core.PaymentMethod) paymentMethodDTO {
	dto := paymentMethodDTO{
		ID:             m.ID,
		Kind:           string(m.Kind),
		Name:           m.Name,
		StatementDate:  m.StatementDate,
		PaymentAccount: m.PaymentAccount,
		AnnualFee:      m.AnnualFee,
		TickerSymbol:   m.TickerSymbol,
		WalletAddress:  m.WalletAddress,
		Rewards:        make([]rewardDTO, 0, len(m.Rewards)),
	}
	for _, rw := range m.Rewards {
		dto.Rewards = append(dto.Rewards, rewardDTO{
			ID: rw.ID, Kind: string(rw.Kind), Amount: rw.Amount,
			CategoryID: rw.CategoryID, Frequency: rw.Frequency,
		})
	}
	return dto
}

func (s *Server) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		methods, err := s.assets.ListPaymentMethods(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Payment method list error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list payment methods")
			return
		}
		out := make([]paymentMethodDTO, 0, len(methods))
		for _, m := range methods {
			out = append(out, toPaymentMethodDTO(m))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var dto paymentMethodDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		m := paymentMethodFromDTO(dto)
		if err := m.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		id, err := s.assets.CreatePaymentMethod(r.Context(), m)
		if err != nil {
			slog.ErrorContext(r.Context(), "Payment method create error", "error", err, "name", m.Name)
			writeError(w, http.StatusInternalServerError, "failed to create payment method")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePaymentMethodItem(w http.ResponseWriter, r *http.Request) {
	id, _, err := parseIDSuffix(r.URL.Path, "/api/payment-methods/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var dto paymentMethodDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		m := paymentMethodFromDTO(dto)
		m.ID = id
		if err := m.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := s.assets.UpdatePaymentMethod(r.Context(), m); err != nil {
			slog.ErrorContext(r.Context(), "Payment method update error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to update payment method")
			return
		}
		writeJSON(w, http.StatusOK, nil)

	case http.MethodDelete:
		if err := s.assets.DeletePaymentMethod(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Payment method delete error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to delete payment method")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type investmentDTO struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Ticker      string             `json:"ticker"`
	Value       float64            `json:"value"`
	Totals      core.MonthlyTotals `json:"monthly_totals,omitempty"`
	LastUpdated string             `json:"last_updated,omitempty"`
}

func (s *Server) handleInvestments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		investments, err := s.assets.ListInvestments(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Investment list error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list investments")
			return
		}
		out := make([]investmentDTO, 0, len(investments))
		for _, inv := range investments {
			dto := investmentDTO{ID: inv.ID, Name: inv.Name, Ticker: inv.Ticker, Value: inv.Value, Totals: inv.Totals}
			if !inv.LastUpdated.IsZero() {
				dto.LastUpdated = inv.LastUpdated.UTC().Format(core.TimeLayout)
			}
			out = append(out, dto)
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var dto investmentDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		inv := core.Investment{
			Name:        sanitizeInput(dto.Name),
			Ticker:      sanitizeInput(dto.Ticker),
			Value:       dto.Value,
			Totals:      dto.Totals,
			LastUpdated: time.Now(),
		}
		if err := inv.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		id, err := s.assets.CreateInvestment(r.Context(), inv)
		if err != nil {
			slog.ErrorContext(r.Context(), "Investment create error", "error", err, "name", inv.Name)
			writeError(w, http.StatusInternalServerError, "failed to create investment")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleInvestmentItem(w http.ResponseWriter, r *http.Request) {
	id, sub, err := parseIDSuffix(r.URL.Path, "/api/investments/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if sub == "totals" {
		s.serveInvestmentTotals(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var dto investmentDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		inv := core.Investment{
			ID:          id,
			Name:        sanitizeInput(dto.Name),
			Ticker:      sanitizeInput(dto.Ticker),
			Value:       dto.Value,
			LastUpdated: time.Now(),
		}
		if err := inv.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := s.assets.UpdateInvestment(r.Context(), inv); err != nil {
			slog.ErrorContext(r.Context(), "Investment update error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to update investment")
			return
		}
		writeJSON(w, http.StatusOK, nil)

	case http.MethodDelete:
		if err := s.assets.DeleteInvestment(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Investment delete error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to delete investment")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) serveInvestmentTotals(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var totals core.MonthlyTotals
	if err := json.NewDecoder(r.Body).Decode(&totals); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	raw, err := totals.Encode()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid totals")
		return
	}
	if err := s.assets.SaveInvestmentTotals(r.Context(), id, raw); err != nil {
		slog.ErrorContext(r.Context(), "Investment totals error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to save totals")
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.assets.GetSettings(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Settings load error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load settings")
			return
		}
		writeJSON(w, http.StatusOK, settings)

	case http.MethodPut:
		var settings map[string]string
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		for key, value := range settings {
			if err := s.assets.SetSetting(r.Context(), sanitizeInput(key), value); err != nil {
				slog.ErrorContext(r.Context(), "Setting save error", "error", err, "key", key)
				writeError(w, http.StatusInternalServerError, "failed to save setting")
				return
			}
		}
		writeJSON(w, http.StatusOK, nil)

	default:
		w.Header().Set("Allow", "GET, PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
