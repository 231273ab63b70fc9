package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// ApiMock is a recording HTTP server used in place of third-party APIs.
// Responses are configured per method and path; unconfigured routes answer 200 {}.
type ApiMock struct {
	mu               sync.Mutex
	requestsReceived map[string][]map[string]any
	headersReceived  map[string][]map[string]string
	responseMap      map[string]any
	responseStatus   map[string]int
	server           *httptest.Server
}

func NewApiServer() *ApiMock {
	a := &ApiMock{}
	a.Reset()
	return a
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				key := r.Method + r.URL.Path

				body, _ := io.ReadAll(r.Body)
				var request map[string]any
				_ = json.Unmarshal(body, &request)
				if request == nil {
					request = map[string]any{}
				}

				headers := map[string]string{}
				for name, values := range r.Header {
					headers[name] = values[0]
				}

				a.mu.Lock()
				a.requestsReceived[key] = append(a.requestsReceived[key], request)
				a.headersReceived[key] = append(a.headersReceived[key], headers)
				status, ok := a.responseStatus[key]
				if !ok {
					status = http.StatusOK
				}
				response, ok := a.responseMap[key]
				if !ok {
					response = map[string]any{}
				}
				a.mu.Unlock()

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(response)
			},
		),
	)
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) SetResponse(method, path string, status int, response any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responseStatus[method+path] = status
	a.responseMap[method+path] = response
}

// RequestCount returns how many requests were received on method and path.
func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requestsReceived[method+path])
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	requests := a.requestsReceived[method+path]
	if index < 0 || index >= len(requests) {
		return nil
	}
	return requests[index]
}

func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	headers := a.headersReceived[method+path]
	if index < 0 || index >= len(headers) {
		return nil
	}
	return headers[index]
}

// Reset forgets recorded requests and configured responses.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requestsReceived = map[string][]map[string]any{}
	a.headersReceived = map[string][]map[string]string{}
	a.responseMap = map[string]any{}
	a.responseStatus = map[string]int{}
}
