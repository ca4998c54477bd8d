package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Gateway response codes returned to the IPN caller.
const (
	RspSuccess        = "00"
	RspOrderNotFound  = "01"
	RspAlreadyUpdated = "02"
	RspInvalidAmount  = "04"
	RspChecksumFailed = "97"
	RspUnknownError   = "99"
)

// Payment stages accepted by the initiator.
const (
	StageDeposit = "deposit_payment"
	StageFinal   = "final_payment"
)

// Order-info prefixes distinguishing deposit from final payments.
const (
	PrefixDeposit = "DP"
	PrefixFinal   = "FP"
)

// VNPayConfig holds gateway configuration
type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
	Version    string
	CurrCode   string
	Locale     string
}

// VNPayService builds signed redirect URLs and verifies IPN signatures.
type VNPayService struct {
	config *VNPayConfig
}

var (
	vnpayService *VNPayService
	vnpayOnce    sync.Once
)

// GetVNPayService returns singleton instance of VNPayService
func GetVNPayService() *VNPayService {
	vnpayOnce.Do(func() {
		tmnCode := os.Getenv("VNPAY_TMN_CODE")
		hashSecret := os.Getenv("VNPAY_HASH_SECRET")
		payURL := os.Getenv("VNPAY_PAY_URL")
		returnURL := os.Getenv("VNPAY_RETURN_URL")

		if tmnCode == "" {
			tmnCode = "DEMOV210"
		}
		if hashSecret == "" {
			hashSecret = "RAOEXHYVSDDIIENYWSLDIIZTANRUAXNG"
		}
		if payURL == "" {
			payURL = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
		}
		if returnURL == "" {
			returnURL = "http://localhost:8080/payment/vnpay-return"
		}

		vnpayService = NewVNPayService(&VNPayConfig{
			TmnCode:    tmnCode,
			HashSecret: hashSecret,
			PayURL:     payURL,
			ReturnURL:  returnURL,
			Version:    "2.1.0",
			CurrCode:   "VND",
			Locale:     "vn",
		})
	})
	return vnpayService
}

// NewVNPayService creates a new instance of VNPayService
func NewVNPayService(config *VNPayConfig) *VNPayService {
	if config.Version == "" {
		config.Version = "2.1.0"
	}
	if config.CurrCode == "" {
		config.CurrCode = "VND"
	}
	if config.Locale == "" {
		config.Locale = "vn"
	}
	return &VNPayService{config: config}
}

// PaymentURLRequest carries everything needed to build a redirect URL.
type PaymentURLRequest struct {
	TxnRef     string
	OrderInfo  string
	Amount     int64 // settlement currency, scaled by 100
	BankCode   string
	IPAddr     string
	CreateDate time.Time
}

// hashData canonicalizes params for signing: keys sorted
// lexicographically, values encoded with url.QueryEscape (reserved
// characters percent-escaped, spaces as '+'), pairs joined with '&'.
// BuildPaymentURL and VerifySignature share this encoder, so signatures
// stay valid as long as the gateway echoes parameter values verbatim.
// Changing the encoding breaks verification of in-flight callbacks.
func (vs *VNPayService) hashData(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+url.QueryEscape(params[k]))
	}
	return strings.Join(pairs, "&")
}

// Sign computes the hex HMAC-SHA512 of the canonicalized params.
func (vs *VNPayService) Sign(params map[string]string) string {
	mac := hmac.New(sha512.New, []byte(vs.config.HashSecret))
	mac.Write([]byte(vs.hashData(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildPaymentURL assembles the full signed redirect URL for the gateway.
func (vs *VNPayService) BuildPaymentURL(req PaymentURLRequest) string {
	params := map[string]string{
		"vnp_Version":    vs.config.Version,
		"vnp_Command":    "pay",
		"vnp_TmnCode":    vs.config.TmnCode,
		"vnp_Amount":     strconv.FormatInt(req.Amount, 10),
		"vnp_CurrCode":   vs.config.CurrCode,
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     vs.config.Locale,
		"vnp_ReturnUrl":  vs.config.ReturnURL,
		"vnp_IpAddr":     req.IPAddr,
		"vnp_CreateDate": req.CreateDate.Format("20060102150405"),
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	query := vs.hashData(params)
	return vs.config.PayURL + "?" + query + "&vnp_SecureHash=" + vs.Sign(params)
}

// VerifySignature recomputes the HMAC over the callback params (minus the
// hash fields) and compares it against the provided vnp_SecureHash.
func (vs *VNPayService) VerifySignature(params map[string]string) bool {
	received := params["vnp_SecureHash"]
	if received == "" {
		return false
	}

	data := make(map[string]string, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		data[k] = v
	}

	expected := vs.Sign(data)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(received)))
}
