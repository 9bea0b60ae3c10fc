package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"quantbt/internal/config"
	"quantbt/internal/domain"
	"quantbt/internal/util"
)

var _ Provider = (*TushareProvider)(nil)

// TushareProvider fetches China A-share daily bars from the Tushare Pro
// HTTP API. Requests are rate limited and retried with backoff.
type TushareProvider struct {
	token   string
	baseURL string
	client  *http.Client
	limiter *util.RateLimiter
	retries int
	log     *slog.Logger
}

func NewTushareProvider(cfg config.Tushare) *TushareProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultTushareBaseURL
	}
	perMin := cfg.RateLimitPerMin
	if perMin <= 0 {
		perMin = 60
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &TushareProvider{
		token:   cfg.Token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: util.NewRateLimiter(perMin),
		retries: retries,
		log:     slog.Default().With("provider", "tushare"),
	}
}

func (p *TushareProvider) Name() string { return "tushare" }

// NormalizeSymbol appends the exchange suffix Tushare expects: 6xx and
// 9xx codes trade in Shanghai, 4xx and 8xx on the Beijing exchange,
// everything else in Shenzhen. Symbols that already carry a suffix are
// only uppercased.
func (p *TushareProvider) NormalizeSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(symbol, ".") {
		return symbol
	}
	if symbol == "" {
		return symbol
	}
	switch symbol[0] {
	case '6', '9':
		return symbol + ".SH"
	case '4', '8':
		return symbol + ".BJ"
	default:
		return symbol + ".SZ"
	}
}

type tushareRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields"`
}

type tushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string        `json:"fields"`
		Items  [][]interface{} `json:"items"`
	} `json:"data"`
}

// DailyBars calls the "daily" endpoint. Tushare reports volume in lots
// of 100 shares and amount in thousands of yuan; both are converted to
// base units here.
func (p *TushareProvider) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	symbol = p.NormalizeSymbol(symbol)
	req := tushareRequest{
		APIName: "daily",
		Token:   p.token,
		Params: map[string]string{
			"ts_code":    symbol,
			"start_date": start.Format("20060102"),
			"end_date":   end.Format("20060102"),
		},
		Fields: "ts_code,trade_date,open,high,low,close,vol,amount",
	}

	var resp tushareResponse
	err := util.Retry(ctx, p.retries, time.Second, func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		return p.call(ctx, req, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("tushare daily %s: %w", symbol, err)
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("tushare daily %s: api error %d: %s", symbol, resp.Code, resp.Msg)
	}

	bars, err := p.decodeBars(symbol, resp.Data.Fields, resp.Data.Items)
	if err != nil {
		return nil, fmt.Errorf("tushare daily %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s %s..%s", ErrNoData, symbol,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	// Tushare returns newest first.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	p.log.Debug("fetched bars", "symbol", symbol, "count", len(bars))
	return bars, nil
}

func (p *TushareProvider) call(ctx context.Context, req tushareRequest, out *tushareResponse) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, httpResp.Body)
		return fmt.Errorf("http status %d", httpResp.StatusCode)
	}
	return json.NewDecoder(httpResp.Body).Decode(out)
}

func (p *TushareProvider) decodeBars(symbol string, fields []string, items [][]interface{}) ([]domain.Bar, error) {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f] = i
	}
	maxIdx := 0
	for _, f := range []string{"trade_date", "open", "high", "low", "close", "vol", "amount"} {
		i, ok := idx[f]
		if !ok {
			return nil, fmt.Errorf("response missing field %q", f)
		}
		if i > maxIdx {
			maxIdx = i
		}
	}

	bars := make([]domain.Bar, 0, len(items))
	for row, item := range items {
		if len(item) <= maxIdx {
			return nil, fmt.Errorf("row %d has %d values, want at least %d", row, len(item), maxIdx+1)
		}
		dateStr, _ := item[idx["trade_date"]].(string)
		date, err := time.Parse("20060102", dateStr)
		if err != nil {
			return nil, fmt.Errorf("bad trade_date %q: %w", dateStr, err)
		}
		bars = append(bars, domain.Bar{
			Symbol: symbol,
			Date:   date,
			Open:   toFloat(item[idx["open"]]),
			High:   toFloat(item[idx["high"]]),
			Low:    toFloat(item[idx["low"]]),
			Close:  toFloat(item[idx["close"]]),
			Volume: int64(toFloat(item[idx["vol"]]) * 100),
			Amount: toFloat(item[idx["amount"]]) * 1000,
		})
	}
	return bars, nil
}

func toFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}
