package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lenormand-api/config"
	"lenormand-api/internal/core/ports"
	"lenormand-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	smsAPIVersion = "2017-05-25"

	actionSendSms           = "SendSms"
	actionSendSmsVerifyCode = "SendSmsVerifyCode"

	// Fixed OutId tag for the phone-number verification service.
	verifyOutID = "lenormand-otp"

	// Validity window communicated in the verification template, minutes.
	// Must stay in sync with the code store TTL.
	verifyCodeMinutes = "5"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AliyunSMSService implements ports.SMSSender against the Alibaba Cloud SMS
// HTTP API. Each Send is a single signed GET; there are no retries, since a
// duplicate call bills and delivers a second message.
type AliyunSMSService struct {
	cfg    config.SMSConfig
	sig    ports.SignatureService
	client HTTPClient
	log    zerolog.Logger

	now   func() time.Time
	nonce func() string
}

// NewAliyunSMSService creates a new SMS dispatcher.
func NewAliyunSMSService(cfg config.SMSConfig, sig ports.SignatureService, client HTTPClient, log zerolog.Logger) *AliyunSMSService {
	return &AliyunSMSService{
		cfg:    cfg,
		sig:    sig,
		client: client,
		log:    log,
		now:    time.Now,
		nonce:  uuid.NewString,
	}
}

// vendorResponse is the JSON body returned by the SMS endpoint.
type vendorResponse struct {
	Code      string `json:"Code"`
	Message   string `json:"Message"`
	RequestID string `json:"RequestId"`
	BizID     string `json:"BizId"`
}

// Send delivers the verification code to phone, or fails explicitly.
func (s *AliyunSMSService) Send(ctx context.Context, phone, code string) error {
	params, err := s.buildParams(phone, code)
	if err != nil {
		return apperror.InternalError(err)
	}

	signature := s.sig.Sign(http.MethodGet, params, s.cfg.AccessKeySecret)
	reqURL := fmt.Sprintf("https://%s/?Signature=%s&%s",
		s.cfg.Endpoint, percentEncode(signature), s.sig.CanonicalQueryString(params))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("build sms request: %w", err))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return apperror.ErrSMSTimeout(err)
		}
		return apperror.ErrSMSDelivery("", err)
	}
	defer resp.Body.Close()

	var body vendorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apperror.ErrSMSDelivery("", fmt.Errorf("decode vendor response: %w", err))
	}

	if body.Code != "OK" {
		s.log.Warn().
			Str("vendor_code", body.Code).
			Str("vendor_message", body.Message).
			Str("request_id", body.RequestID).
			Msg("sms delivery rejected by vendor")
		return apperror.ErrSMSDelivery(body.Message, fmt.Errorf("vendor code %s", body.Code))
	}

	s.log.Info().
		Str("biz_id", body.BizID).
		Str("request_id", body.RequestID).
		Msg("sms delivered")
	return nil
}

// buildParams assembles the full parameter mapping for one request. The
// vendor action is chosen by the configured service enum, never inferred
// from the template code.
func (s *AliyunSMSService) buildParams(phone, code string) (map[string]string, error) {
	params := map[string]string{
		"AccessKeyId":      s.cfg.AccessKeyID,
		"Format":           "JSON",
		"RegionId":         s.cfg.RegionID,
		"SignatureMethod":  "HMAC-SHA1",
		"SignatureNonce":   s.nonce(),
		"SignatureVersion": "1.0",
		// The vendor rejects sub-second precision.
		"Timestamp":    s.now().UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z"),
		"Version":      smsAPIVersion,
		"SignName":     s.cfg.SignName,
		"TemplateCode": s.cfg.TemplateCode,
	}

	switch s.cfg.Service {
	case config.SMSServiceVerify:
		tp, err := json.Marshal(map[string]string{"code": code, "min": verifyCodeMinutes})
		if err != nil {
			return nil, fmt.Errorf("marshal template params: %w", err)
		}
		params["Action"] = actionSendSmsVerifyCode
		params["PhoneNumber"] = phone
		params["OutId"] = verifyOutID
		params["TemplateParam"] = string(tp)
	case config.SMSServiceGeneral:
		tp, err := json.Marshal(map[string]string{"code": code})
		if err != nil {
			return nil, fmt.Errorf("marshal template params: %w", err)
		}
		params["Action"] = actionSendSms
		params["PhoneNumbers"] = phone
		params["TemplateParam"] = string(tp)
	default:
		return nil, fmt.Errorf("unknown sms service %q", s.cfg.Service)
	}

	return params, nil
}
