// Package litnetclient wires configuration, transport, and the anonymous
// authorization handshake into ready-to-use Litnet clients.
//
// Create an authorized catalog and fetch a book:
//
//	catalog, err := litnetclient.New(ctx, &litnet.Config{
//	  DeviceID: "3f0c9a7e-2a47-4a43-9a9b-8a0f4c1f5b11",
//	})
//	if err != nil { log.Fatal(err) }
//
//	book, err := catalog.Book(ctx, 42)
//
// New registers the device immediately. If registration fails, or the
// response carries no token, New returns the error and no catalog.
//
// Point the client at a test double by setting Config.BaseURL, or replace the
// HTTP layer entirely with Config.Transport:
//
//	session, err := litnetclient.NewSession(&litnet.Config{
//	  DeviceID:  "device",
//	  Transport: myTransport,
//	})
//
// A shared *http.Client passed as Config.HTTPClient is used but never closed
// or reconfigured.
package litnetclient
