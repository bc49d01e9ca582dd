// Package api is the secondary gorilla/mux JSON surface over the
// aggregator facade: quote, pool listing/search, health, config and
// cache-stats endpoints.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"dexrouter/internal/aggregator"
	"dexrouter/internal/types"
)

// Handler serves the HTTP API over an Aggregator.
type Handler struct {
	agg *aggregator.Aggregator
}

// NewHandler constructs a Handler.
func NewHandler(agg *aggregator.Aggregator) *Handler {
	return &Handler{agg: agg}
}

// quoteRequest is the JSON body for POST /api/v1/quote.
type quoteRequest struct {
	TokenIn  string `json:"token_in"`
	TokenOut string `json:"token_out"`
	AmountIn string `json:"amount_in"`
	Strategy string `json:"strategy"`
	TopN     int    `json:"top_n"`
}

// GetQuote handles POST /api/v1/quote.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "application/json" {
		log.Printf("api: invalid content type %q", contentType)
		http.Error(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("api: failed to decode JSON: %v", err)
		http.Error(w, "invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.TokenIn == "" || req.TokenOut == "" {
		http.Error(w, "token_in and token_out are required", http.StatusBadRequest)
		return
	}
	if !common.IsHexAddress(req.TokenIn) {
		http.Error(w, "invalid token_in address", http.StatusBadRequest)
		return
	}
	if !common.IsHexAddress(req.TokenOut) {
		http.Error(w, "invalid token_out address", http.StatusBadRequest)
		return
	}

	tokenIn, _ := types.ParseAddress(req.TokenIn)
	tokenOut, _ := types.ParseAddress(req.TokenOut)

	amountIn, err := types.NewAmountFromString(req.AmountIn)
	if err != nil || amountIn.IsZero() {
		http.Error(w, "invalid amount_in", http.StatusBadRequest)
		return
	}

	strategy := types.ParseOptimizationStrategy(req.Strategy)
	topN := req.TopN
	if topN <= 0 {
		topN = 1
	}

	log.Printf("api: quote request %s -> %s, amount %s, strategy %s", req.TokenIn, req.TokenOut, amountIn, strategy)

	quotes, err := h.agg.GetTopQuotes(r.Context(), tokenIn, tokenOut, amountIn, strategy, topN)
	if err != nil {
		log.Printf("api: quote failed: %v", err)
		http.Error(w, "quote calculation failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":  len(quotes),
		"quotes": quotes,
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// GetPools handles GET /api/v1/pools.
func (h *Handler) GetPools(w http.ResponseWriter, r *http.Request) {
	pools := h.agg.GetPools()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count": len(pools),
		"pools": pools,
	})
}

// GetPoolsByToken handles GET /api/v1/pools/search?token=0x...
func (h *Handler) GetPoolsByToken(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		http.Error(w, "token parameter is required", http.StatusBadRequest)
		return
	}
	token, err := types.ParseAddress(raw)
	if err != nil {
		http.Error(w, "invalid token address", http.StatusBadRequest)
		return
	}

	pools := h.agg.GetPoolsWithToken(token)
	log.Printf("api: %d pools found containing token %s", len(pools), token.Hex())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"token": token.Hex(),
		"count": len(pools),
		"pools": pools,
	})
}

// GetConfig handles GET /config.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.agg.Config()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"chain_id":             cfg.ChainID,
		"uniswap_v2_factory":   cfg.UniswapV2Factory.Hex(),
		"sushiswap_factory":    cfg.SushiswapFactory.Hex(),
		"cache_enabled":        cfg.CacheEnabled,
		"cache_backend":        cfg.CacheBackend,
		"default_slippage_bps": cfg.DefaultSlippageBps,
		"max_hops":             cfg.MaxHops,
		"gas_price_gwei":       cfg.GasPriceGwei,
	})
}

// GetCacheStats handles GET /cache/stats.
func (h *Handler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.agg.Stats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"total_pools": stats.TotalPools,
		"dex_counts":  stats.DexCounts,
	})
}

// Router assembles every route onto a fresh mux.Router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/quote", h.GetQuote).Methods("POST")
	r.HandleFunc("/api/v1/pools", h.GetPools).Methods("GET")
	r.HandleFunc("/api/v1/pools/search", h.GetPoolsByToken).Methods("GET")
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/config", h.GetConfig).Methods("GET")
	r.HandleFunc("/cache/stats", h.GetCacheStats).Methods("GET")
	return r
}
