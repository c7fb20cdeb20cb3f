package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/braintree/manners"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	flags "github.com/jessevdk/go-flags"
	"github.com/qbbridge/QuickBooksInvoiceServer/gateway"
)

const description = "QuickBooks invoice bridge server"
const version = "0.1.0 August 2026"
const usage = " <options>" + "\n\n  " + description

// Opts are the command line options; each can also be set through the
// named environment variable
type Opts struct {
	Port         string `short:"p" long:"port" env:"PORT" description:"port to run on" default:"3000"`
	Addr         string `short:"n" long:"address" description:"network address to run on" default:"127.0.0.1"`
	ClientID     string `long:"clientid" env:"CLIENT_ID" description:"quickbooks oauth2 client id" required:"true"`
	ClientSecret string `long:"clientsecret" env:"CLIENT_SECRET" description:"quickbooks oauth2 client secret" required:"true"`
	Redirect     string `short:"r" long:"redirect" env:"REDIRECT_URI" description:"oauth2 redirect address" default:"http://localhost:3000/callback"`
	TokenFile    string `short:"t" long:"tokenfile" env:"TOKEN_FILE" description:"path of the json credential file" default:"tokens.json"`
}

func main() {

	var options Opts
	var parser = flags.NewParser(&options, flags.Default)
	parser.Usage = fmt.Sprintf("%s : %s", usage, version)

	if _, err := parser.Parse(); err != nil {
		flagError := err.(*flags.Error)
		if flagError.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
		}
		os.Exit(1)
	}

	store := gateway.NewFileStore(options.TokenFile)

	authURL, tokenURL, apiBase := "", "", "" // use QuickBooks default urls
	gw, err := gateway.NewGateway(
		options.ClientID,
		options.ClientSecret,
		options.Redirect,
		store,
		authURL,
		tokenURL,
		apiBase,
	)

	if err != nil {
		log.Printf("gateway setup error %s\n", err)
		os.Exit(1)
	}

	// endpoint routing; gorilla mux is used because "/" in http.NewServeMux
	// is a catch-all pattern
	r := mux.NewRouter()
	r.HandleFunc("/", gw.HandleHome).Methods("GET")
	r.HandleFunc("/auth/quickbooks", gw.HandleAuth).Methods("GET")
	r.HandleFunc("/callback", gw.HandleCallback).Methods("GET")
	r.HandleFunc("/create-invoice", gw.HandleCreateInvoice).Methods("POST")
	r.HandleFunc("/livez", gw.HandleLivez)
	r.HandleFunc("/status", gw.HandleStatus).Methods("GET")

	// create a handler wrapped in a recovery handler and logging handler
	hdl := handlers.RecoveryHandler()(
		handlers.LoggingHandler(os.Stdout, r))

	// configure server options
	server := &http.Server{
		Addr:         options.Addr + ":" + options.Port,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		Handler:      hdl,
	}
	log.Printf("serving on %s:%s", options.Addr, options.Port)

	// catch signals
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go listenForShutdown(ch)

	// wrap server with manners
	manners.ListenAndServe(server.Addr, server.Handler)
}

func listenForShutdown(ch <-chan os.Signal) {
	<-ch
	log.Print("Closing the server")
	manners.Close()
}
