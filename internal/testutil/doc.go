// Package testutil provides an in-process HTTP endpoint for client tests.
//
// MockServer routes by method and path and records every request it
// receives, so tests can assert on what a client sent as well as on how it
// handled the response.
//
//	ms := testutil.NewMockServer()
//	defer ms.Close()
//
//	ms.HandleJSON("POST", "/posts", http.StatusCreated, map[string]string{"id": "1"})
//	client := transport.NewClient(ms.URL() + "/posts")
//	data, err := client.SendDataRequest(ctx, post)
//
//	req, _ := ms.LastRequest()
package testutil
