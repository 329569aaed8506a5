package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mocketh/walletd/app/types"
)

type Controller struct {
	App *types.App
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{
		App: app,
	}
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() (*mux.Router, error) {
	r := mux.NewRouter()

	r.HandleFunc("/health", c.HandleHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/wallet/create", c.HandleCreateWallet).Methods("POST")
	api.HandleFunc("/wallet/{address}/balance", c.HandleBalance).Methods("GET")
	api.HandleFunc("/price", c.HandlePrice).Methods("GET")
	api.HandleFunc("/convert", c.HandleConvert).Methods("POST")
	api.HandleFunc("/transaction/send", c.HandleSend).Methods("POST")
	api.HandleFunc("/transactions/{address}", c.HandleTransactions).Methods("GET")
	api.HandleFunc("/transaction/{hash}", c.HandleTransactionByHash).Methods("GET")

	return r, nil
}

// WithCORS is a middleware that adds CORS headers to the response.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodPost+", "+http.MethodOptions)

		// Fast-path the preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
