// Package litnet provides types, interfaces, and errors for working with the
// Litnet book-catalog API.
//
// # Overview
//
// The API is read through an anonymous, device-bound session. A Session
// registers the device, extracts the token from the registration response,
// and then sends that token as the user_token query parameter on every
// following request. A Catalog is a narrow, already-authorized view over a
// Session that fetches book records by id. Concrete implementations live in
// internal packages and are wired by the litnetclient package; most consumers
// should import litnetclient to construct a catalog.
//
// Getting a catalog
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/boxwithpython/litnet-dataset/pkg/litnet"
//	  "github.com/boxwithpython/litnet-dataset/pkg/litnetclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  catalog, err := litnetclient.New(ctx, &litnet.Config{DeviceID: "my-device"})
//	  if err != nil { log.Fatal(err) }
//
//	  book, err := catalog.Book(ctx, 42)
//	  if err != nil { log.Fatal(err) }
//	  _ = book
//	}
//
// # Records
//
// Responses are not modeled locally. Record is the decoded JSON object exactly
// as the API returned it.
//
// # Errors
//
// Three failure classes are distinguished: HTTPError for non-2xx responses,
// DecodeError for bodies that are not a JSON object, and InvalidResponseError
// for a registration response without a usable token. IsNotFound and
// IsUnauthorized branch on common HTTP cases.
package litnet
