// Package client implements the HTTP client for the cluster REST API. Each
// call performs exactly one synchronous request against one connection and
// returns a typed result or a classified error; nothing is cached between
// calls and nothing is retried.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/thebtf/clustershell/internal/connection"
)

// DecryptFunc decrypts a stored password, keyed by username. Injected so the
// client never depends on the cipher package directly.
type DecryptFunc func(username, ciphertext string) (string, error)

// Client talks to the cluster behind one connection record.
type Client struct {
	conn    *connection.Record
	decrypt DecryptFunc
	httpc   *http.Client
}

// New creates a client for the given connection. Timeouts are whatever the
// transport defaults to; the shell blocks on every call by design.
func New(conn *connection.Record, decrypt DecryptFunc) *Client {
	return &Client{
		conn:    conn,
		decrypt: decrypt,
		httpc:   &http.Client{},
	}
}

// Connection returns the record this client was built from.
func (c *Client) Connection() *connection.Record {
	return c.conn
}

// ClusterInfo confirms connectivity and returns the cluster name and version.
func (c *Client) ClusterInfo(ctx context.Context) (*ClusterInfo, error) {
	var info ClusterInfo
	if err := c.get(ctx, "/", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ClusterHealth returns the cluster status and node counts.
func (c *Client) ClusterHealth(ctx context.Context) (*ClusterHealth, error) {
	var health ClusterHealth
	if err := c.get(ctx, "/_cluster/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Mappings returns the mapping documents of all indices, keyed by index name.
func (c *Client) Mappings(ctx context.Context) (map[string]IndexMappings, error) {
	mappings := map[string]IndexMappings{}
	if err := c.get(ctx, "/_mappings", &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// CreateIndex creates an index with the given settings. A non-OK status or a
// missing or false acknowledgement yields false, never an error: a rejected
// creation is an expected negative outcome, not a fault. That swallows 401
// here too, matching the behavior existing scripts depend on.
func (c *Client) CreateIndex(ctx context.Context, name string, settings IndexSettings) (bool, error) {
	return c.acknowledged(ctx, http.MethodPut, "/"+name, createIndexBody{Settings: settings})
}

// DeleteIndex deletes an index. Same non-OK-as-false rule as CreateIndex.
func (c *Client) DeleteIndex(ctx context.Context, name string) (bool, error) {
	return c.acknowledged(ctx, http.MethodDelete, "/"+name, nil)
}

// IndexStats returns statistics for one index. The second return value is
// false when the cluster answered non-OK or the index key is absent from the
// response.
func (c *Client) IndexStats(ctx context.Context, name string) (*IndexStatsContainer, bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/"+name+"/_stats", nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("path", req.URL.Path).Msg("Request failed")
		return nil, false, ErrUnknownServer
	}
	defer resp.Body.Close()

	if !isOK(resp.StatusCode) {
		return nil, false, nil
	}

	var result indexStatsResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Debug().Err(err).Str("path", req.URL.Path).Msg("Malformed response body")
		return nil, false, ErrUnknownServer
	}

	container, ok := result.Indices[name]
	if !ok {
		return nil, false, nil
	}
	return &container, true, nil
}

// NodeInfo returns statistics for the node with the given name. Names are
// matched against the name field of each node entry, not the map key.
func (c *Client) NodeInfo(ctx context.Context, name string) (*Node, error) {
	var info NodesInfo
	if err := c.get(ctx, "/_nodes/stats", &info); err != nil {
		return nil, err
	}

	for _, node := range info.Nodes {
		if node.Name == name {
			return &node, nil
		}
	}
	return nil, &NodeNotFoundError{Name: name}
}

// get performs a GET with full error classification: 401 is bad credentials,
// everything else that is not a decodable 2xx is an unknown server error.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Request failed")
		return ErrUnknownServer
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrBadCredentials
	case !isOK(resp.StatusCode):
		log.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("Unexpected status")
		return ErrUnknownServer
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Malformed response body")
		return ErrUnknownServer
	}
	return nil
}

// acknowledged performs an index mutation and reduces the outcome to the
// acknowledged flag. Only a transport-level failure surfaces as an error.
func (c *Client) acknowledged(ctx context.Context, method, path string, body any) (bool, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return false, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Request failed")
		return false, ErrUnknownServer
	}
	defer resp.Body.Close()

	if !isOK(resp.StatusCode) {
		return false, nil
	}

	var ack acknowledgement
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Malformed response body")
		return false, ErrUnknownServer
	}
	return ack.Acknowledged, nil
}

// newRequest builds a JSON request against the connection's base URL,
// attaching basic auth when the connection has a username. The password is
// decrypted transiently per request and never stored on the client.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.conn.URL()+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	if c.conn.Username != "" {
		password, err := c.decrypt(c.conn.Username, c.conn.Password)
		if err != nil {
			return nil, fmt.Errorf("decrypt password for %q: %w", c.conn.Username, err)
		}
		cred := base64.StdEncoding.EncodeToString([]byte(c.conn.Username + ":" + password))
		req.Header.Set("Authorization", "Basic "+cred)
	}
	return req, nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}
