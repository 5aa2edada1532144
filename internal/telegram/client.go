package telegram

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/net/proxy"
)

// PollTimeout is the getUpdates long-poll timeout in seconds. The HTTP
// client timeout must outlast it.
const PollTimeout = 60

// NewHTTPClient returns an HTTP client for the Bot API. proxyURL may be
// empty, an http(s) proxy or a socks5 proxy.
func NewHTTPClient(proxyURL string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		switch u.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(u)
		case "socks5", "socks5h":
			dialer, err := proxy.FromURL(u, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("socks5 proxy: %w", err)
			}
			transport.Proxy = nil
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				transport.DialContext = cd.DialContext
			} else {
				transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
					return dialer.Dial(network, addr)
				}
			}
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   (PollTimeout + 15) * time.Second,
	}, nil
}

// NewBotAPI authorizes against Telegram through the configured proxy.
func NewBotAPI(token, proxyURL string) (*tgbotapi.BotAPI, error) {
	client, err := NewHTTPClient(proxyURL)
	if err != nil {
		return nil, err
	}
	return tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
}
