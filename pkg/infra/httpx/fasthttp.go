package httpx

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxConnsPerHost     = 256
	DefaultMaxIdleConnDuration = 10 * time.Second
	DefaultMaxResponseBodySize = 10 * 1024 * 1024
)

type options struct {
	timeout             time.Duration
	maxConnsPerHost     int
	maxIdleConnDuration time.Duration
	maxResponseBodySize int
	userAgent           string
}

type Option func(*options)

func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func WithMaxConnsPerHost(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConnsPerHost = n
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// FastHTTPClient adapts fasthttp to the net/http shaped Client interface.
// Compressed response bodies are decoded before they are returned.
type FastHTTPClient struct {
	client    *fasthttp.Client
	userAgent string
}

func NewFastHTTPClient(opts ...Option) *FastHTTPClient {
	o := &options{
		timeout:             DefaultTimeout,
		maxConnsPerHost:     DefaultMaxConnsPerHost,
		maxIdleConnDuration: DefaultMaxIdleConnDuration,
		maxResponseBodySize: DefaultMaxResponseBodySize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &FastHTTPClient{
		client: &fasthttp.Client{
			ReadTimeout:         o.timeout,
			WriteTimeout:        o.timeout,
			MaxConnsPerHost:     o.maxConnsPerHost,
			MaxIdleConnDuration: o.maxIdleConnDuration,
			MaxResponseBodySize: o.maxResponseBodySize,
		},
		userAgent: o.userAgent,
	}
}

func (c *FastHTTPClient) Do(req *http.Request) (*http.Response, error) {
	fastReq := fasthttp.AcquireRequest()
	fastResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(fastReq)
	defer fasthttp.ReleaseResponse(fastResp)

	fastReq.SetRequestURI(req.URL.String())
	fastReq.Header.SetMethod(req.Method)
	for key, values := range req.Header {
		for _, v := range values {
			fastReq.Header.Add(key, v)
		}
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		fastReq.Header.SetUserAgent(c.userAgent)
	}
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		fastReq.SetBodyRaw(body)
	}

	timeout := c.client.ReadTimeout
	if deadline, ok := req.Context().Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := c.client.DoTimeout(fastReq, fastResp, timeout); err != nil {
		return nil, err
	}

	encoding := string(fastResp.Header.Peek(fasthttp.HeaderContentEncoding))
	body, decoded, err := DecodeBody(encoding, fastResp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q response: %w", encoding, err)
	}
	bodyCopy := make([]byte, len(body))
	copy(bodyCopy, body)

	headers := make(http.Header)
	fastResp.Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})
	if decoded {
		headers.Del(fasthttp.HeaderContentEncoding)
		headers.Del(fasthttp.HeaderContentLength)
	}

	status := fastResp.StatusCode()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        headers,
		Body:          io.NopCloser(bytes.NewReader(bodyCopy)),
		ContentLength: int64(len(bodyCopy)),
		Request:       req,
	}, nil
}
