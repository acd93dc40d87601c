package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Quotient/internal/store"
)

type RefDataHandler struct {
	store store.Store
}

func NewRefDataHandler(s store.Store) *RefDataHandler {
	return &RefDataHandler{store: s}
}

func (h *RefDataHandler) Companies(w http.ResponseWriter, r *http.Request) {
	if productType := r.URL.Query().Get("product_type"); productType != "" {
		companies, err := h.store.ListCompaniesByProduct(r.Context(), productType)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if companies == nil {
			companies = []*store.Company{}
		}
		writeJSON(w, http.StatusOK, companies)
		return
	}

	companies, err := h.store.ListCompanies(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if companies == nil {
		companies = []*store.Company{}
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *RefDataHandler) Products(w http.ResponseWriter, r *http.Request) {
	filter := store.ProductFilter{
		CompanyID:   r.URL.Query().Get("company_id"),
		ProductType: r.URL.Query().Get("product_type"),
		ActiveOnly:  r.URL.Query().Get("active") != "false",
	}

	products, err := h.store.ListProducts(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if products == nil {
		products = []*store.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}
