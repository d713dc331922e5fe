package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/plant-storefront/internal/currency"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	"github.com/aaravmahajanofficial/plant-storefront/internal/rates"
	"github.com/aaravmahajanofficial/plant-storefront/internal/utils/response"
)

type RateHandler struct {
	provider rates.Provider
}

func NewRateHandler(provider rates.Provider) *RateHandler {
	return &RateHandler{provider: provider}
}

// ExchangeRate godoc
//
//	@Summary		Current USD to PHP rate
//	@Description	Never fails; an unreachable upstream yields the fixed fallback rate.
//	@Tags			Currency
//	@Produce		json
//	@Success		200	{object}	models.ExchangeRate
//	@Router			/exchange-rate [get]
func (h *RateHandler) ExchangeRate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		response.Success(w, http.StatusOK, models.ExchangeRate{
			Base:  string(currency.USD),
			Quote: string(currency.PHP),
			Rate:  h.provider.FetchRate(r.Context()),
		})
	}
}
