package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// QuickBooksAuthURL is the Intuit authorization url
const QuickBooksAuthURL string = "https://appcenter.intuit.com/connect/oauth2"

// QuickBooksTokenURL is the Intuit bearer token endpoint
const QuickBooksTokenURL string = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"

// QuickBooksAPIBase is the base url of the QuickBooks accounting API
const QuickBooksAPIBase string = "https://quickbooks.api.intuit.com"

// QuickBooksScope is the accounting scope requested during
// authorization
const QuickBooksScope string = "com.intuit.quickbooks.accounting"

// Gateway bridges clients to the QuickBooks API. It builds the
// authorization url, exchanges authorization codes for tokens,
// persists the resulting CredentialSet through its Store and submits
// invoices with the stored bearer token.
//
// The randomised state string is written to the Gateway when the
// authorization url is generated and checked when the provider calls
// back; generating a second url before the first callback completes
// invalidates the first.
type Gateway struct {
	clientID          string
	clientSecret      string
	redirectURL       string
	state             string
	authURL           string
	tokenURL          string
	apiBase           string
	store             Store
	httpclientTimeout time.Duration
	locker            sync.Mutex
}

// NewGateway returns a new Gateway. Empty authURL, tokenURL and
// apiBase select the QuickBooks production endpoints; tests inject
// their own.
func NewGateway(clientID, clientSecret, redirect string, store Store, authURL, tokenURL, apiBase string) (g *Gateway, err error) {

	if clientID == "" || clientSecret == "" {
		return g, errors.New("client id or secret is empty")
	}
	_, err = url.ParseRequestURI(redirect)
	if err != nil {
		return g, errors.New("redirect url invalid")
	}
	if store == nil {
		return g, errors.New("credential store cannot be nil")
	}
	if authURL == "" {
		authURL = QuickBooksAuthURL
	}
	if tokenURL == "" {
		tokenURL = QuickBooksTokenURL
	}
	if apiBase == "" {
		apiBase = QuickBooksAPIBase
	}

	g = &Gateway{
		clientID:          clientID,
		clientSecret:      clientSecret,
		redirectURL:       redirect,
		authURL:           authURL,
		tokenURL:          tokenURL,
		apiBase:           apiBase,
		store:             store,
		httpclientTimeout: time.Second * 10,
	}
	return g, nil
}

// AuthURL returns the authorization url which is the beginning of the
// authorization process; the state string is randomized and stored in
// g for verification when the provider redirects back
func (g *Gateway) AuthURL() string {

	g.locker.Lock()
	g.state = uuid.NewString()
	state := g.state
	g.locker.Unlock()

	v := url.Values{}
	v.Set("client_id", g.clientID)
	v.Set("scope", QuickBooksScope)
	v.Set("redirect_uri", g.redirectURL)
	v.Set("response_type", "code")
	v.Set("state", state)

	return g.authURL + "?" + v.Encode()
}

// VerifyState checks a state string returned by the provider against
// the one issued by AuthURL. A gateway which has issued no state (for
// example after a restart mid-flow) accepts any; the code exchange is
// the real gate.
func (g *Gateway) VerifyState(state string) bool {
	g.locker.Lock()
	defer g.locker.Unlock()
	if g.state == "" {
		return true
	}
	return state == g.state
}

// tokenResults is the shape of the Intuit token endpoint response
type tokenResults struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

// Exchange swaps an authorization code for tokens and persists the
// resulting CredentialSet. The realm (company) id comes from the
// redirect query parameters, not the token response body.
func (g *Gateway) Exchange(code, realmID string) (CredentialSet, error) {

	var creds CredentialSet

	if code == "" {
		return creds, ErrMissingCode
	}

	form := url.Values{}
	form.Add("grant_type", "authorization_code")
	form.Add("code", strings.TrimSpace(code))
	form.Add("redirect_uri", g.redirectURL)
	form.Add("client_id", g.clientID)
	form.Add("client_secret", g.clientSecret)
	req, err := http.NewRequest("POST", g.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return creds, err
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Add("Accept", "application/json")

	client := http.Client{
		Timeout: g.httpclientTimeout,
	}

	resp, err := client.Do(req)
	if err != nil {
		return creds, &UpstreamError{"token exchange", 0, err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			body = []byte("could not read body")
		}
		return creds, &UpstreamError{"token exchange", resp.StatusCode, string(body)}
	}

	var results tokenResults
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return creds, fmt.Errorf("json decoding error: %s", err)
	}
	if results.AccessToken == "" || results.RefreshToken == "" {
		return creds, errors.New("empty response received from server")
	}

	creds = CredentialSet{
		AccessToken:  results.AccessToken,
		RefreshToken: results.RefreshToken,
		RealmID:      realmID,
	}
	if err := g.store.Save(creds); err != nil {
		return creds, err
	}

	return creds, nil
}

// CreateInvoice loads the stored credentials, maps req into the
// QuickBooks invoice schema and posts it to the company-scoped invoice
// endpoint. The raw json of the created invoice resource is returned.
// No outbound call is made without an access token and realm id.
func (g *Gateway) CreateInvoice(ir InvoiceRequest) (json.RawMessage, error) {

	creds, err := g.store.Load()
	if err != nil {
		return nil, err
	}
	if !creds.Authorized() {
		return nil, ErrNotAuthorized
	}

	payload, err := json.Marshal(ir.Invoice())
	if err != nil {
		return nil, err
	}

	// requestid makes retries of the same call idempotent on the
	// QuickBooks side
	endpoint := fmt.Sprintf(
		"%s/v3/company/%s/invoice?requestid=%s",
		g.apiBase, url.PathEscape(creds.RealmID), uuid.NewString(),
	)
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	client := http.Client{
		Timeout: g.httpclientTimeout,
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &UpstreamError{"invoice creation", 0, err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		body = []byte("could not read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{"invoice creation", resp.StatusCode, string(body)}
	}

	return json.RawMessage(body), nil
}
