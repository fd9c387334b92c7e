package httpx

import "net/http"

// Client is the transport used by every outbound collaborator call.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
