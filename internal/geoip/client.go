// Package geoip определяет публичный IP и геолокацию текущего клиента
// через цепочку публичных REST-сервисов. Каждый запрос ограничен по
// времени; при полном отказе цепочки выполняется один немедленный повтор,
// после чего возвращаются строки-заглушки "Unavailable".
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// Unavailable значение-заглушка, когда IP или локацию определить не удалось.
const Unavailable = "Unavailable"

const requestTimeout = 3 * time.Second

// Client выполняет цепочку обращений к публичным IP/geo сервисам.
type Client struct {
	httpClient  *http.Client
	ipEndpoints []string // отдают IP плоским текстом либо JSON {"ip": "..."}
	geoURL      string   // шаблон с %s на месте IP
	log         *slog.Logger
}

// NewClient создает клиент с дефолтной цепочкой публичных сервисов.
func NewClient(log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		ipEndpoints: []string{
			"https://api.ipify.org?format=json",
			"https://icanhazip.com",
			"https://ipapi.co/ip",
		},
		geoURL: "http://ip-api.com/json/%s",
		log:    log,
	}
}

// NewClientWithEndpoints создает клиент с заданной цепочкой, используется в тестах.
func NewClientWithEndpoints(log *slog.Logger, ipEndpoints []string, geoURL string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		ipEndpoints: ipEndpoints,
		geoURL:      geoURL,
		log:         log,
	}
}

// Lookup возвращает публичный IP и локацию. Никогда не возвращает ошибку:
// при полном отказе всех сервисов после повтора поля заполняются заглушками.
func (c *Client) Lookup(ctx context.Context) models.GeoInfo {
	ip := c.lookupIP(ctx)
	if ip == "" {
		// один немедленный повтор всей цепочки
		ip = c.lookupIP(ctx)
	}
	if ip == "" {
		c.log.Warn("all ip lookup endpoints failed")
		return models.GeoInfo{IP: Unavailable, Location: Unavailable}
	}

	location := c.lookupLocation(ctx, ip)
	if location == "" {
		location = Unavailable
	}
	return models.GeoInfo{IP: ip, Location: location}
}

func (c *Client) lookupIP(ctx context.Context) string {
	for _, endpoint := range c.ipEndpoints {
		body, err := c.fetch(ctx, endpoint)
		if err != nil {
			c.log.Debug("ip endpoint failed", slog.String("endpoint", endpoint), sl.Err(err))
			continue
		}
		if ip := parseIP(body); ip != "" {
			return ip
		}
	}
	return ""
}

func (c *Client) lookupLocation(ctx context.Context, ip string) string {
	body, err := c.fetch(ctx, fmt.Sprintf(c.geoURL, ip))
	if err != nil {
		c.log.Debug("geo endpoint failed", sl.Err(err))
		return ""
	}
	var payload struct {
		City    string `json:"city"`
		Country string `json:"country"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch {
	case payload.City != "" && payload.Country != "":
		return payload.City + ", " + payload.Country
	case payload.Country != "":
		return payload.Country
	default:
		return ""
	}
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4096))
}

// parseIP принимает ответ сервиса: либо JSON {"ip": "..."}, либо плоский
// текст с адресом. Возвращает пустую строку, если адрес не разобрался.
func parseIP(body []byte) string {
	var payload struct {
		IP string `json:"ip"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.IP != "" {
		if net.ParseIP(payload.IP) != nil {
			return payload.IP
		}
		return ""
	}
	raw := strings.TrimSpace(string(body))
	if net.ParseIP(raw) != nil {
		return raw
	}
	return ""
}
