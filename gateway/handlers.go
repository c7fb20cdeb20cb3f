package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
)

// HandleHome provides the home page with a link into the login flow
func (g *Gateway) HandleHome(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "<html><title>QuickBooks invoice bridge</title><body>")
	fmt.Fprint(w, "<h4>QuickBooks connection</h4>")
	fmt.Fprint(w, `<p>Connect this service to QuickBooks by <a href="/auth/quickbooks">logging into Intuit</a>.</p>`)
	fmt.Fprint(w, "<p>Invoices can then be submitted to <code>/create-invoice</code>.</p>")
	fmt.Fprint(w, "</body></html>")
}

// HandleAuth starts the authorization flow by redirecting the user
// agent to the Intuit authorization url
func (g *Gateway) HandleAuth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Location", g.AuthURL())
	w.WriteHeader(302)
}

// HandleCallback processes the redirect from Intuit, swapping the code
// for tokens and persisting them together with the realmId query
// parameter. Note that the "state" parameter is checked against the
// randomised string stored when the authorization url was generated;
// this is a security measure to avoid spoofed callouts.
func (g *Gateway) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if !g.VerifyState(r.URL.Query().Get("state")) {
		msg := fmt.Sprintf("url state != saved state: %s", r.URL.RawQuery)
		log.Println(msg)
		http.Error(w, "state mismatch", http.StatusForbidden)
		return
	}

	code := r.URL.Query().Get("code")
	realmID := r.URL.Query().Get("realmId")

	creds, err := g.Exchange(code, realmID)
	if err != nil {
		if errors.Is(err, ErrMissingCode) {
			log.Println("callback without authorization code")
			http.Error(w, "Authorization code is missing", http.StatusBadRequest)
			return
		}
		log.Printf("error exchanging authorization code: %s", err)
		http.Error(w, "Error exchanging authorization code for tokens", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{
		"message":       "OAuth 2.0 authentication successful",
		"access_token":  creds.AccessToken,
		"refresh_token": creds.RefreshToken,
		"company_id":    creds.RealmID,
	})
}

// HandleCreateInvoice accepts an InvoiceRequest json body and submits
// the mapped invoice to QuickBooks
func (g *Gateway) HandleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var ir InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&ir); err != nil {
		log.Printf("invoice body decoding error: %s", err)
		http.Error(w, "invalid invoice request body", http.StatusBadRequest)
		return
	}

	invoice, err := g.CreateInvoice(ir)
	if err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			log.Println("invoice creation attempted without credentials")
			http.Error(w, "Access token or Company ID is missing", http.StatusBadRequest)
			return
		}
		log.Printf("error creating invoice: %s", err)
		http.Error(w, "Error creating invoice in QuickBooks", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"message": "Invoice created successfully in QuickBooks",
		"invoice": invoice,
	})
}

// HandleLivez reports service liveness
func (g *Gateway) HandleLivez(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "OK")
}

// HandleStatus reports whether the service holds usable credentials,
// without revealing the tokens themselves
func (g *Gateway) HandleStatus(w http.ResponseWriter, r *http.Request) {
	creds, err := g.store.Load()
	if err != nil {
		log.Printf("status credential load error: %s", err)
		http.Error(w, "credential store unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"authorized": creds.Authorized(),
		"company_id": creds.RealmID,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	j, err := json.Marshal(v)
	if err != nil {
		msg := fmt.Sprintf("json encoding error: %s", err)
		log.Println(msg)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(j)
}
