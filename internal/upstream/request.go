package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/camino-ai/camino-mcp-gateway/internal/catalog"
	"github.com/camino-ai/camino-mcp-gateway/internal/params"
	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
	"github.com/camino-ai/camino-mcp-gateway/internal/secrets"
)

func (c *Client) buildRequest(ctx context.Context, def *catalog.ToolDefinition, req *params.Resolved, creds map[string]secrets.Credential) (*http.Request, error) {
	endpoint := strings.TrimRight(c.BaseURL, "/") + def.Path

	var body *bytes.Reader
	if def.Encoding == catalog.EncodingJSON {
		payload := bodyPayload(def, req)
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, protocol.Transport(def.Name, "encode request body: "+err.Error())
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(ctx, def.Method, endpoint, body)
	if err != nil {
		return nil, protocol.Transport(def.Name, "build request: "+err.Error())
	}

	if def.Encoding == catalog.EncodingQuery {
		request.URL.RawQuery = queryValues(def, req).Encode()
	} else {
		request.Header.Set("Content-Type", "application/json")
	}

	header := c.CredentialHeader
	if header == "" {
		header = "X-API-Key"
	}
	if len(def.Secrets) > 0 {
		cred, ok := creds[def.Secrets[0]]
		if !ok {
			return nil, protocol.SecretNotFound(def.Name, def.Secrets[0])
		}
		request.Header.Set(header, cred.Reveal())
	}
	return request, nil
}

// queryValues forwards only caller-supplied fields, in parameter declaration
// order. Omitted optionals stay absent so upstream server-side defaults are
// never overridden unintentionally.
func queryValues(def *catalog.ToolDefinition, req *params.Resolved) url.Values {
	values := url.Values{}
	for _, spec := range def.Params {
		if !req.Supplied[spec.Name] {
			continue
		}
		values.Set(spec.Name, queryString(req.Values[spec.Name]))
	}
	return values
}

func bodyPayload(def *catalog.ToolDefinition, req *params.Resolved) any {
	if def.BuildBody != nil {
		return def.BuildBody(req.Values, req.Supplied)
	}
	payload := make(map[string]any, len(req.Supplied))
	for _, spec := range def.Params {
		if req.Supplied[spec.Name] {
			payload[spec.Name] = req.Values[spec.Name]
		}
	}
	return payload
}

func queryString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
