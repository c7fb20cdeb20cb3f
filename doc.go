/*
QuickBooksInvoiceServer v0.1.0

Summary:

QuickBooksInvoiceServer is an http server bridging a client application
to the QuickBooks accounting API. It performs the Intuit OAuth2
authorization code flow, persists the resulting access token, refresh
token and company (realm) id to a json file, and submits invoices built
from a simple client payload to the company-scoped QuickBooks invoice
endpoint with a bearer token.

The server deliberately does not refresh expired access tokens; an
expired token surfaces as an upstream error on the next invoice call
and the authorization flow can simply be re-run.

The gateway package provides a convenient way to integrate the flow
into another Go programme.
*/

package main
