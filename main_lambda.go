//go:build lambda

package main

import (
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

//go:embed data/npcs.json
var embeddedCatalog string

// lambdaTimeLimit keeps a search inside the function URL timeout.
const lambdaTimeLimit = 25 * time.Second

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type optimizeRequest struct {
	Catalog     json.RawMessage `json:"catalog"`
	Policy      *Policy         `json:"policy"`
	TimeLimitMs int64           `json:"timeLimitMs"`
}

type optimizeResult struct {
	Result *Result `json:"result"`
	Detail string  `json:"detail"`
	Error  string  `json:"error,omitempty"`
}

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req optimizeRequest
	if body != "" {
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			return errResp(400, "invalid JSON: "+err.Error())
		}
	}

	data := embeddedCatalog
	if len(req.Catalog) > 0 {
		data = string(req.Catalog)
	}
	cat, err := parseCatalogJSON(data)
	if err != nil {
		return errResp(400, err.Error())
	}

	pol := DefaultPolicy()
	if req.Policy != nil {
		pol = *req.Policy
	}

	cfg := DefaultConfig()
	cfg.TimeLimit = lambdaTimeLimit
	if req.TimeLimitMs > 0 {
		cfg.TimeLimit = min(cfg.TimeLimit, time.Duration(req.TimeLimitMs)*time.Millisecond)
	}

	res, err := Search(ctx, cat, pol, cfg)
	switch {
	case errors.Is(err, ErrInvalidInput):
		return errResp(400, err.Error())
	case errors.Is(err, ErrNoSolution):
		return errResp(422, err.Error())
	}

	out := optimizeResult{Result: res}
	if res != nil {
		out.Detail = FormatResult(res)
	}
	// Canceled or truncated: the partial layout still goes back to the caller.
	status := 200
	switch {
	case errors.Is(err, ErrTruncated):
		status = 507
	case err != nil:
		status = 408
	}
	if err != nil {
		out.Error = err.Error()
	}
	respJSON, _ := json.Marshal(out)
	return events.LambdaFunctionURLResponse{StatusCode: status, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
