package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	requestIDHeader = "X-Request-ID"
)

// multipartFile is a single file part of a multipart request.
type multipartFile struct {
	Param       string
	FileName    string
	ContentType string
	Reader      io.Reader
}

func (c *Client) setHeaders(_ *resty.Client, req *resty.Request) error {
	req.SetHeader("User-Agent", c.UserAgent)
	req.SetHeader("Accept", contentType)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}

	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL))
	return nil
}

func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	c.logger.Debug("got response from portal",
		zap.String("url", resp.Request.URL),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", resp.Time()),
	)
	return nil
}

// getJSON makes GET request and decodes the object into target.
func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return &TransportError{Err: err}
	}

	return c.decodeResponse(resp, target)
}

// postMultipart makes multipart POST request with the given fields and file, decoding the reply into target.
func (c *Client) postMultipart(ctx context.Context, path, requestID string, data map[string]string, file multipartFile, target any) error {
	req := c.rest.R().
		SetContext(ctx).
		SetMultipartFormData(data).
		SetMultipartField(file.Param, file.FileName, file.ContentType, file.Reader)

	if requestID != "" {
		req.SetHeader(requestIDHeader, requestID)
	}

	resp, err := req.Post(path)
	if err != nil {
		return &TransportError{Err: err}
	}

	return c.decodeResponse(resp, target)
}

func (c *Client) decodeResponse(resp *resty.Response, target any) error {
	if !resp.IsSuccess() {
		return &StatusError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Detail:     extractDetail(resp.Body()),
		}
	}

	if target == nil {
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return &DecodeError{Err: err}
	}

	if raw == nil {
		return &DecodeError{Err: fmt.Errorf("empty response object")}
	}

	if err := decodeObject(raw, target); err != nil {
		return &DecodeError{Err: err}
	}

	return nil
}

// decodeObject fills target from raw. Every target field must be present in raw and not null.
func decodeObject(raw map[string]any, target any) error {
	for key, value := range raw {
		if value == nil {
			return fmt.Errorf("field %q is null", key)
		}
	}

	cfg := &mapstructure.DecoderConfig{
		Result:     target,
		TagName:    "json",
		DecodeHook: stringToFloatHook,
		ErrorUnset: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(raw)
}

// stringToFloatHook accepts numbers sent as strings, e.g. "85". An empty string is an error.
func stringToFloatHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Float64 {
		return data, nil
	}

	value := strings.TrimSpace(data.(string))
	if value == "" {
		return nil, errors.New("empty number")
	}

	return strconv.ParseFloat(value, 64)
}

// extractDetail returns the `detail` message of an error body when it is a non-empty string.
func extractDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	detail := gjson.GetBytes(body, "detail")
	if detail.Type != gjson.String {
		return ""
	}

	return detail.String()
}
