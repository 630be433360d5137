package gateway

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hotel/internal/domain"
)

var (
	ErrMissingCredentials = domain.ErrMissingCredentials
	ErrInvalidAmount      = domain.ErrInvalidAmount
)

const (
	DefaultBaseURL = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
	createDateFmt  = "20060102150405"
)

var orderInfoStrip = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Config carries merchant credentials. It is injected, never read from the
// environment here.
type Config struct {
	TmnCode    string
	HashSecret string
	BaseURL    string
	ReturnURL  string
	Version    string
	Locale     string
	CurrCode   string
}

type Client struct {
	cfg Config
	now func() time.Time
	loc *time.Location
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = "2.1.0"
	}
	if cfg.Locale == "" {
		cfg.Locale = "vn"
	}
	if cfg.CurrCode == "" {
		cfg.CurrCode = "VND"
	}
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		loc = time.FixedZone("ICT", 7*60*60)
	}
	return &Client{cfg: cfg, now: time.Now, loc: loc}
}

// WithClock overrides the timestamp source.
func (c *Client) WithClock(now func() time.Time) *Client {
	cp := *c
	cp.now = now
	return &cp
}

type PaymentRequest struct {
	TxnRef    string
	Amount    int64
	OrderInfo string
	ClientIP  string
}

// Configured reports whether merchant credentials and the return URL are set.
func (c *Client) Configured() bool {
	return c.cfg.TmnCode != "" && c.cfg.HashSecret != "" && c.cfg.ReturnURL != ""
}

// BuildPaymentURL signs req and returns the redirect URL the customer follows.
func (c *Client) BuildPaymentURL(req PaymentRequest) (string, error) {
	if !c.Configured() {
		return "", ErrMissingCredentials
	}
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}

	ip := req.ClientIP
	if ip == "" || ip == "::1" {
		ip = "127.0.0.1"
	}

	params := map[string]string{
		"vnp_Version":    c.cfg.Version,
		"vnp_Command":    "pay",
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Locale":     c.cfg.Locale,
		"vnp_CurrCode":   c.cfg.CurrCode,
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  orderInfoStrip.ReplaceAllString(req.OrderInfo, ""),
		"vnp_OrderType":  "other",
		"vnp_Amount":     strconv.FormatInt(MinorUnits(req.Amount), 10),
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     ip,
		"vnp_CreateDate": c.now().In(c.loc).Format(createDateFmt),
	}

	signData := Canonical(params)
	hash := Sign(params, c.cfg.HashSecret)
	return fmt.Sprintf("%s?%s&%s=%s", c.cfg.BaseURL, signData, ParamSecureHash, hash), nil
}

// Verify checks a callback's signature with the configured secret.
func (c *Client) Verify(params map[string]string) bool {
	return Verify(params, c.cfg.HashSecret)
}

// NormalizeAmount rounds total to a whole currency unit and rejects
// non-positive results.
func NormalizeAmount(total decimal.Decimal) (int64, error) {
	rounded := total.Round(0)
	if !rounded.IsPositive() {
		return 0, ErrInvalidAmount
	}
	return rounded.IntPart(), nil
}

// MinorUnits converts whole currency units to the gateway's x100 format.
func MinorUnits(amount int64) int64 {
	return amount * 100
}

// Notification is the subset of callback fields reconciliation needs.
type Notification struct {
	TxnRef            string
	Amount            int64
	ResponseCode      string
	TransactionStatus string
	TransactionNo     string
	BankCode          string
	PayDate           string
}

func ParseNotification(params map[string]string) (Notification, error) {
	n := Notification{
		TxnRef:            strings.TrimSpace(params["vnp_TxnRef"]),
		ResponseCode:      params["vnp_ResponseCode"],
		TransactionStatus: params["vnp_TransactionStatus"],
		TransactionNo:     params["vnp_TransactionNo"],
		BankCode:          params["vnp_BankCode"],
		PayDate:           params["vnp_PayDate"],
	}
	raw := strings.TrimSpace(params["vnp_Amount"])
	if raw == "" {
		return n, fmt.Errorf("vnp_Amount missing")
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return n, fmt.Errorf("vnp_Amount %q: %w", raw, err)
	}
	n.Amount = amount
	return n, nil
}

// Succeeded reports a successful charge. An absent transaction status is
// treated as success when the response code is.
func (n Notification) Succeeded() bool {
	if n.ResponseCode != "00" {
		return false
	}
	return n.TransactionStatus == "" || n.TransactionStatus == "00"
}

// PaymentID parses the transaction reference back into a payment id.
func (n Notification) PaymentID() (int64, bool) {
	id, err := strconv.ParseInt(n.TxnRef, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
